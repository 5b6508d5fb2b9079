package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"customer-service/internal/api/handler/dto"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"customer-service/internal/pkg/pipeline"
)

type CustomerHandler struct {
	sender pipeline.Sender
	logger *slog.Logger
}

func NewCustomerHandler(s pipeline.Sender, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("pipeline sender cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		sender: s,
		logger: l.With("component", "CustomerHandler"),
	}
}

// logOutcome logs a failed dispatch at debug level; faults were already
// logged inside the pipeline.
func (h *CustomerHandler) logOutcome(r *http.Request, msg string, err error) {
	level := slog.LevelDebug
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
		level = slog.LevelInfo
	}
	h.logger.Log(r.Context(), level, msg, slog.Any("error", err))
}

// CreateCustomer handles POST /api/customers
// @Summary Create a new customer
// @Description Creates a customer and returns the identifier assigned by the store.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer creation request"
// @Success 200 {integer} int64 "Identifier of the new customer"
// @Failure 400 {object} dto.ErrorResponse "Malformed body or validation failures"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers [post]
// @Security BearerAuth
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	id, err := pipeline.Send[int64](r.Context(), h.sender, req.Command())
	if err != nil {
		h.logOutcome(r, "Create customer failed", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.Int64("customerID", id))
	respondJSON(w, http.StatusOK, id)
}

// ListCustomers handles GET /api/customers
// @Summary List customers
// @Description Returns one page of customers ordered by ascending id. Parameter names are case-insensitive.
// @Tags Customers
// @Produce json
// @Param pageNumber query int false "1-based page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {array} dto.CustomerResponse "Customers on the requested page"
// @Failure 400 {object} dto.ErrorResponse "Invalid paging parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid paging parameters", slog.Any("error", err))
		respondError(w, err)
		return
	}

	customers, err := pipeline.Send[[]*customer.Customer](r.Context(), h.sender, query)
	if err != nil {
		h.logOutcome(r, "List customers failed", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerListResponse(customers))
}

// GetCustomer handles GET /api/customers/{customerID}
// @Summary Retrieve a customer
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID"
// @Success 200 {object} dto.CustomerResponse "Customer details"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers/{customerID} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	cust, err := pipeline.Send[*customer.Customer](r.Context(), h.sender, customer.GetCustomerQuery{CustomerID: customerID})
	if err != nil {
		h.logOutcome(r, "Get customer failed", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(cust))
}

// UpdateCustomer handles PUT /api/customers/{customerID}
// @Summary Update a customer
// @Description Overwrites name, email, phone number and date of birth. The body customerId must equal the path id.
// @Tags Customers
// @Accept json
// @Param customerID path int true "Customer ID"
// @Param request body dto.UpdateCustomerRequest true "Customer update request"
// @Success 204 "Customer updated"
// @Failure 400 {object} dto.ErrorResponse "Id mismatch, malformed body or validation failures"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers/{customerID} [put]
// @Security BearerAuth
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	var req dto.UpdateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if req.CustomerID != customerID {
		h.logger.WarnContext(r.Context(), "Path and body customer IDs differ",
			slog.Int64("pathID", customerID),
			slog.Int64("bodyID", req.CustomerID),
		)
		respondError(w, apperrors.NewValidationError("customerId", "Customer Id in the body must match the id in the path."))
		return
	}

	if _, err := pipeline.Send[pipeline.Unit](r.Context(), h.sender, req.Command()); err != nil {
		h.logOutcome(r, "Update customer failed", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer updated successfully", slog.Int64("customerID", customerID))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCustomer handles DELETE /api/customers/{customerID}
// @Summary Delete a customer
// @Tags Customers
// @Param customerID path int true "Customer ID"
// @Success 204 "Customer deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers/{customerID} [delete]
// @Security BearerAuth
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	if _, err := pipeline.Send[pipeline.Unit](r.Context(), h.sender, customer.DeleteCustomerCommand{CustomerID: customerID}); err != nil {
		h.logOutcome(r, "Delete customer failed", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer deleted successfully", slog.Int64("customerID", customerID))
	w.WriteHeader(http.StatusNoContent)
}

// parseListQuery reads pageNumber and pageSize, matching names without regard
// to case. Absent values take the defaults.
func parseListQuery(values url.Values) (customer.ListCustomersQuery, error) {
	q := customer.ListCustomersQuery{
		PageNumber: customer.DefaultPageNumber,
		PageSize:   customer.DefaultPageSize,
	}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		var target *int
		switch {
		case strings.EqualFold(key, "pageNumber"):
			target = &q.PageNumber
		case strings.EqualFold(key, "pageSize"):
			target = &q.PageSize
		default:
			continue
		}
		n, err := strconv.Atoi(vals[0])
		if err != nil {
			return q, fmt.Errorf("%w: %s must be an integer, got %q", apperrors.ErrInvalidArgument, key, vals[0])
		}
		*target = n
	}
	return q, nil
}
