package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"customer-service/internal/infrastructure/monitoring"
	"customer-service/internal/pkg/apperrors"
)

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeNotFound  = "not_found"
	OutcomeFaulted   = "faulted"
)

// Validator reports the broken rules of a request. An empty result means valid.
type Validator func(req Request) []apperrors.FieldError

// Validators maps a request name to the validators that run for it, in order.
type Validators map[string][]Validator

// AddValidator registers a typed validator for Req.
func AddValidator[Req Request](vs Validators, fn func(req Req) []apperrors.FieldError) {
	var zero Req
	name := zero.RequestName()
	vs[name] = append(vs[name], func(req Request) []apperrors.FieldError {
		typed, ok := req.(Req)
		if !ok {
			return nil
		}
		return fn(typed)
	})
}

// IsExpected reports whether err is a normal business outcome rather than a fault.
func IsExpected(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation)
}

// Outcome classifies the result of a dispatched request.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.Is(err, apperrors.ErrValidation):
		return OutcomeFailed
	case errors.Is(err, apperrors.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeFaulted
	}
}

// Validation runs every validator registered for the request and short-circuits
// with *apperrors.ValidationErrors when any rule is broken.
func Validation(validators Validators, logger *slog.Logger) Behavior {
	logger = logger.With("component", "ValidationBehavior")
	return func(ctx context.Context, req Request, next HandlerFunc) (any, error) {
		name := req.RequestName()
		var failures []apperrors.FieldError
		for _, v := range validators[name] {
			failures = append(failures, v(req)...)
		}
		if len(failures) > 0 {
			logger.WarnContext(ctx, "Request validation failed",
				slog.String("request", name),
				slog.Any("failures", failures),
			)
			return nil, apperrors.NewValidationErrors(name, failures)
		}
		return next(ctx, req)
	}
}

// UnhandledFaults logs any unexpected error or panic from the rest of the chain
// together with the request value. The error is returned unchanged and a panic
// is raised again with its original value.
func UnhandledFaults(logger *slog.Logger) Behavior {
	logger = logger.With("component", "UnhandledFaultBehavior")
	return func(ctx context.Context, req Request, next HandlerFunc) (res any, err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.ErrorContext(ctx, "Unhandled panic for request",
					slog.String("request", req.RequestName()),
					slog.String("error_type", fmt.Sprintf("%T", p)),
					slog.String("error", fmt.Sprint(p)),
					slog.Any("request_details", req),
				)
				panic(p)
			}
		}()

		res, err = next(ctx, req)
		if err != nil && !IsExpected(err) {
			logger.ErrorContext(ctx, "Unhandled error for request",
				slog.String("request", req.RequestName()),
				slog.String("error_type", fmt.Sprintf("%T", err)),
				slog.String("error", err.Error()),
				slog.Any("request_details", req),
			)
		}
		return res, err
	}
}

// Metrics counts every request by name and outcome and observes its latency.
// A panic passing through is counted as faulted.
func Metrics() Behavior {
	return func(ctx context.Context, req Request, next HandlerFunc) (res any, err error) {
		start := time.Now()
		outcome := OutcomeFaulted
		defer func() {
			monitoring.RecordPipelineRequest(req.RequestName(), outcome, time.Since(start))
		}()

		res, err = next(ctx, req)
		outcome = Outcome(err)
		return res, err
	}
}
