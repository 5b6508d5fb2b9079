package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"customer-service/internal/api/handler/dto"
	"customer-service/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

const internalErrorMessage = "An unexpected error occurred."

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError maps an error to its status code and error body. Unexpected
// errors have already been logged by the pipeline and get a generic message.
func respondError(w http.ResponseWriter, err error) {
	status, detail := http.StatusInternalServerError, dto.ErrorDetail{Message: internalErrorMessage}

	var validationErrors *apperrors.ValidationErrors
	var validationError *apperrors.ValidationError
	var notFound *apperrors.NotFoundError

	switch {
	case errors.As(err, &validationErrors):
		status = http.StatusBadRequest
		detail = dto.ErrorDetail{Code: "VALIDATION_FAILED", Message: "One or more validation failures have occurred.", Fields: validationErrors.Failures}
		if len(validationErrors.Failures) > 0 {
			detail.Field = validationErrors.Failures[0].Field
		}
	case errors.As(err, &validationError):
		status = http.StatusBadRequest
		detail = dto.ErrorDetail{Code: "VALIDATION_FAILED", Message: validationError.Message, Field: validationError.Field}
	case errors.As(err, &notFound):
		status = http.StatusNotFound
		detail = dto.ErrorDetail{Code: "NOT_FOUND", Message: notFound.Error()}
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		detail = dto.ErrorDetail{Code: "NOT_FOUND", Message: "Resource not found."}
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
		detail = dto.ErrorDetail{Code: "INVALID_ARGUMENT", Message: err.Error()}
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
		detail = dto.ErrorDetail{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	}

	respondJSON(w, status, dto.ErrorResponse{Error: detail})
}

// getCustomerIDFromURL parses the {customerID} path segment. Zero passes
// through so the validator can report it.
func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "customerID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: customerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid customerID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}
