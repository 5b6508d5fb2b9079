package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"customer-service/internal/api/handler/dto"
)

const defaultClientTimeout = 10 * time.Second

// APIError is a non-2xx answer from the customer API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("customer api returned %d: %s", e.Status, e.Message)
}

// APIClient calls the customer JSON API on behalf of the UI.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewAPIClient(baseURL, token string, httpClient *http.Client, logger *slog.Logger) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultClientTimeout}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
		logger:     logger.With("component", "APIClient"),
	}
}

func (c *APIClient) ListCustomers(ctx context.Context, pageNumber, pageSize int) ([]dto.CustomerResponse, error) {
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(pageNumber))
	q.Set("pageSize", strconv.Itoa(pageSize))

	var customers []dto.CustomerResponse
	if err := c.do(ctx, http.MethodGet, "/api/customers?"+q.Encode(), nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *APIClient) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (int64, error) {
	var id int64
	if err := c.do(ctx, http.MethodPost, "/api/customers", req, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *APIClient) DeleteCustomer(ctx context.Context, customerID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/customers/"+strconv.FormatInt(customerID, 10), nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Customer API request failed", slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		return fmt.Errorf("customer api unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
		c.logger.WarnContext(ctx, "Customer API rejected request",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode customer api response: %w", err)
	}
	return nil
}

// readErrorMessage flattens the API error body into one line, listing field
// failures when present.
func readErrorMessage(r io.Reader) string {
	var body dto.ErrorResponse
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return http.StatusText(http.StatusInternalServerError)
	}
	if len(body.Error.Fields) == 0 {
		return body.Error.Message
	}
	msgs := make([]string, 0, len(body.Error.Fields))
	for _, f := range body.Error.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, " ")
}
