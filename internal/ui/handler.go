package ui

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"customer-service/internal/api/handler/dto"
	mw "customer-service/internal/api/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	defaultPageSize    = 10
	unavailableMessage = "The customer service is unavailable. Try again later."
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// CustomerAPI is the slice of the customer API the page needs.
type CustomerAPI interface {
	ListCustomers(ctx context.Context, pageNumber, pageSize int) ([]dto.CustomerResponse, error)
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (int64, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
}

type createForm struct {
	Name        string
	Email       string
	PhoneNumber string
	DateOfBirth string
}

type pageData struct {
	Customers    []dto.CustomerResponse
	CurrentPage  int
	PreviousPage int
	NextPage     int
	HasPrevious  bool
	HasNext      bool
	Error        string
	Form         createForm
}

type PageHandler struct {
	api      CustomerAPI
	pageSize int
	logger   *slog.Logger
}

func NewPageHandler(api CustomerAPI, pageSize int, logger *slog.Logger) *PageHandler {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return &PageHandler{
		api:      api,
		pageSize: pageSize,
		logger:   logger.With("component", "PageHandler"),
	}
}

// NewRouter serves the customer page.
func NewRouter(h *PageHandler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.StructuredLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", h.Index)
	r.Post("/customers", h.Create)
	r.Post("/customers/{customerID}/delete", h.Delete)
	return r
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, currentPage(r.URL.Query().Get("currentPage")), "", createForm{})
}

func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, 1, "The form could not be read.", createForm{})
		return
	}
	page := currentPage(r.PostForm.Get("currentPage"))
	form := createForm{
		Name:        strings.TrimSpace(r.PostForm.Get("name")),
		Email:       strings.TrimSpace(r.PostForm.Get("email")),
		PhoneNumber: strings.TrimSpace(r.PostForm.Get("phoneNumber")),
		DateOfBirth: strings.TrimSpace(r.PostForm.Get("dateOfBirth")),
	}

	req := dto.CreateCustomerRequest{Name: form.Name, Email: form.Email, PhoneNumber: form.PhoneNumber}
	if form.DateOfBirth != "" {
		dob, err := dto.ParseDate(form.DateOfBirth)
		if err != nil {
			h.render(w, r, page, "Date of birth must be a date.", form)
			return
		}
		req.DateOfBirth = dto.NewDate(dob)
	}

	id, err := h.api.CreateCustomer(r.Context(), req)
	if err != nil {
		h.render(w, r, page, h.errorMessage(err), form)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer created from page", slog.Int64("customerID", id))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	page := 1
	if err := r.ParseForm(); err == nil {
		page = currentPage(r.PostForm.Get("currentPage"))
	}

	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil {
		h.render(w, r, page, "Invalid customer id.", createForm{})
		return
	}

	if err := h.api.DeleteCustomer(r.Context(), customerID); err != nil {
		h.render(w, r, page, h.errorMessage(err), createForm{})
		return
	}

	h.logger.InfoContext(r.Context(), "Customer deleted from page", slog.Int64("customerID", customerID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, page int, errMsg string, form createForm) {
	data := pageData{
		CurrentPage:  page,
		PreviousPage: page - 1,
		NextPage:     page + 1,
		HasPrevious:  page > 1,
		Error:        errMsg,
		Form:         form,
	}

	customers, err := h.api.ListCustomers(r.Context(), page, h.pageSize)
	if err != nil {
		if data.Error == "" {
			data.Error = h.errorMessage(err)
		}
	} else {
		data.Customers = customers
		data.HasNext = len(customers) == h.pageSize
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *PageHandler) errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return unavailableMessage
}

func currentPage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
