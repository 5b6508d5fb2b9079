package customer

import (
	"log/slog"
	"time"

	"customer-service/internal/event"
	"customer-service/internal/pkg/pipeline"
)

// NewMediator assembles the customer pipeline: metrics, then validation,
// then fault logging around the handlers. A nil now defaults to time.Now.
func NewMediator(repo CustomerRepository, pub event.EventPublisher, now func() time.Time, logger *slog.Logger) *pipeline.Mediator {
	validators := pipeline.Validators{}
	RegisterValidators(validators, NewValidator(now))

	m := pipeline.NewMediator(
		pipeline.Metrics(),
		pipeline.Validation(validators, logger),
		pipeline.UnhandledFaults(logger),
	)
	NewHandlers(repo, pub, logger).Register(m)
	return m
}
