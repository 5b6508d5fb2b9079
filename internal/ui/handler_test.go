package ui

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeAPI stands in for the customer API over real HTTP.
type fakeAPI struct {
	mu        sync.Mutex
	total     int
	authSeen  []string
	created   []map[string]any
	deleted   []int64
	createErr string
	deleteErr int
}

func (f *fakeAPI) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))
			f.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("pageNumber"))
		size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
		list := []map[string]any{}
		for id := (page-1)*size + 1; id <= f.total && len(list) < size; id++ {
			list = append(list, map[string]any{
				"id":          id,
				"name":        "Customer " + strconv.Itoa(id),
				"email":       "customer" + strconv.Itoa(id) + "@example.com",
				"phoneNumber": "0123456789",
				"dateOfBirth": "1990-01-31",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	})
	r.Post("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.created = append(f.created, body)
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if f.createErr != "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(f.createErr))
			return
		}
		w.Write([]byte("26"))
	})
	r.Delete("/api/customers/{customerID}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
		f.mu.Lock()
		f.deleted = append(f.deleted, id)
		f.mu.Unlock()
		if f.deleteErr != 0 {
			w.WriteHeader(f.deleteErr)
			w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"Entity \"Customer\" (` + strconv.FormatInt(id, 10) + `) was not found."}}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func setupUI(t *testing.T, api *fakeAPI, token string) http.Handler {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	client := NewAPIClient(srv.URL+"/", token, srv.Client(), logger)
	return NewRouter(NewPageHandler(client, 10, logger), logger)
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postForm(h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	h := setupUI(t, &fakeAPI{total: 25}, "")

	t.Run("first page links forward only", func(t *testing.T) {
		rec := get(h, "/")

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, body, "customer1@example.com")
		assert.Contains(t, body, "customer10@example.com")
		assert.NotContains(t, body, "customer11@example.com")
		assert.Contains(t, body, `href="/?currentPage=2"`)
		assert.NotContains(t, body, ">Previous<")
		assert.Contains(t, body, `action="/customers/1/delete"`)
	})

	t.Run("partial last page links back only", func(t *testing.T) {
		rec := get(h, "/?currentPage=3")

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "customer25@example.com")
		assert.Contains(t, body, `href="/?currentPage=2"`)
		assert.NotContains(t, body, ">Next<")
	})

	t.Run("invalid page falls back to the first", func(t *testing.T) {
		rec := get(h, "/?currentPage=abc")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Page 1")
	})
}

func TestIndexWhenAPIUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewAPIClient(srv.URL, "", nil, logger)
	h := NewRouter(NewPageHandler(client, 10, logger), logger)

	rec := get(h, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), unavailableMessage)
}

func TestCreate(t *testing.T) {
	t.Run("posts to the API and redirects", func(t *testing.T) {
		api := &fakeAPI{total: 25}
		h := setupUI(t, api, "")

		rec := postForm(h, "/customers", url.Values{
			"name":        {"Jane Roe"},
			"email":       {"jane@example.com"},
			"phoneNumber": {"5551234567"},
			"dateOfBirth": {"1990-01-31"},
		})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		require.Len(t, api.created, 1)
		assert.Equal(t, map[string]any{
			"name":        "Jane Roe",
			"email":       "jane@example.com",
			"phoneNumber": "5551234567",
			"dateOfBirth": "1990-01-31",
		}, api.created[0])
	})

	t.Run("API rejection re-renders with its messages", func(t *testing.T) {
		api := &fakeAPI{total: 3, createErr: `{"error":{"code":"VALIDATION_FAILED","message":"One or more validation failures have occurred.","fields":[{"field":"name","message":"Name is required."},{"field":"phoneNumber","message":"Phone number must be 10 digits."}]}}`}
		h := setupUI(t, api, "")

		rec := postForm(h, "/customers", url.Values{"email": {"jane@example.com"}, "phoneNumber": {"123"}})

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Name is required. Phone number must be 10 digits.")
		assert.Contains(t, body, `value="jane@example.com"`)
		assert.Contains(t, body, "customer3@example.com")
	})

	t.Run("unparseable date never reaches the API", func(t *testing.T) {
		api := &fakeAPI{total: 1}
		h := setupUI(t, api, "")

		rec := postForm(h, "/customers", url.Values{"name": {"Jane"}, "dateOfBirth": {"31/01/1990"}})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Date of birth must be a date.")
		assert.Empty(t, api.created)
	})
}

func TestDelete(t *testing.T) {
	t.Run("deletes and redirects", func(t *testing.T) {
		api := &fakeAPI{total: 25}
		h := setupUI(t, api, "secret-token")

		rec := postForm(h, "/customers/5/delete", url.Values{"currentPage": {"1"}})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, []int64{5}, api.deleted)
		assert.Contains(t, api.authSeen, "Bearer secret-token")
	})

	t.Run("missing customer shows the API message", func(t *testing.T) {
		api := &fakeAPI{total: 25, deleteErr: http.StatusNotFound}
		h := setupUI(t, api, "")

		rec := postForm(h, "/customers/99999/delete", url.Values{"currentPage": {"2"}})

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Entity &#34;Customer&#34; (99999) was not found.")
		assert.Contains(t, body, "customer11@example.com")
		assert.Empty(t, api.authSeen[0])
	})
}
