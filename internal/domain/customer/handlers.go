package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"customer-service/internal/event"
	"customer-service/internal/pkg/apperrors"
	"customer-service/internal/pkg/pipeline"
)

const customerNotFound = "Customer not found by repository"

// Handlers executes customer commands and queries once they have passed
// validation. Each write performs exactly one persisted write.
type Handlers struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewHandlers(repo CustomerRepository, pub event.EventPublisher, logger *slog.Logger) *Handlers {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewHandlers, using default stderr handler")
	}
	if pub == nil {
		pub = event.NewNoopPublisher(logger)
	}
	return &Handlers{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerHandlers")),
	}
}

// Register binds every customer command and query to m.
func (h *Handlers) Register(m *pipeline.Mediator) {
	pipeline.Handle(m, h.CreateCustomer)
	pipeline.Handle(m, h.UpdateCustomer)
	pipeline.Handle(m, h.DeleteCustomer)
	pipeline.Handle(m, h.ListCustomers)
	pipeline.Handle(m, h.GetCustomer)
}

func (h *Handlers) CreateCustomer(ctx context.Context, cmd CreateCustomerCommand) (int64, error) {
	h.logger.InfoContext(ctx, "Attempting to create new customer")

	cust := NewCustomer(cmd.Name, cmd.Email, cmd.PhoneNumber, cmd.DateOfBirth)
	if err := h.repo.Save(ctx, cust); err != nil {
		h.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return 0, fmt.Errorf("failed to save new customer: %w", err)
	}

	logger := h.logger.With(slog.Int64("customerID", cust.ID))
	logger.InfoContext(ctx, "Successfully created new customer")

	created := event.CustomerCreatedEvent{Timestamp: time.Now(), Payload: NewCustomerEventPayload(cust)}
	if pubErr := h.pub.PublishCustomerCreated(ctx, created); pubErr != nil {
		logger.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}
	return cust.ID, nil
}

func (h *Handlers) UpdateCustomer(ctx context.Context, cmd UpdateCustomerCommand) (pipeline.Unit, error) {
	logger := h.logger.With(slog.Int64("customerID", cmd.CustomerID))
	logger.InfoContext(ctx, "Attempting to update customer")

	cust, err := h.find(ctx, logger, cmd.CustomerID)
	if err != nil {
		return pipeline.Unit{}, err
	}

	cust.Overwrite(cmd.Name, cmd.Email, cmd.PhoneNumber, cmd.DateOfBirth)
	if err := h.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Customer disappeared before update")
			return pipeline.Unit{}, apperrors.NewNotFoundError(EntityName, cmd.CustomerID)
		}
		logger.ErrorContext(ctx, "Repository failed to update customer", slog.Any("error", err))
		return pipeline.Unit{}, fmt.Errorf("failed to update customer %d: %w", cmd.CustomerID, err)
	}
	logger.InfoContext(ctx, "Successfully updated customer")

	updated := event.CustomerUpdatedEvent{Timestamp: time.Now(), Payload: NewCustomerEventPayload(cust)}
	if pubErr := h.pub.PublishCustomerUpdated(ctx, updated); pubErr != nil {
		logger.ErrorContext(ctx, "Customer updated, but FAILED to publish update event", slog.Any("error", pubErr))
	}
	return pipeline.Unit{}, nil
}

func (h *Handlers) DeleteCustomer(ctx context.Context, cmd DeleteCustomerCommand) (pipeline.Unit, error) {
	logger := h.logger.With(slog.Int64("customerID", cmd.CustomerID))
	logger.InfoContext(ctx, "Attempting to delete customer")

	cust, err := h.find(ctx, logger, cmd.CustomerID)
	if err != nil {
		return pipeline.Unit{}, err
	}

	if err := h.repo.Delete(ctx, cust.ID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, "Customer disappeared before delete")
			return pipeline.Unit{}, apperrors.NewNotFoundError(EntityName, cmd.CustomerID)
		}
		logger.ErrorContext(ctx, "Repository failed to delete customer", slog.Any("error", err))
		return pipeline.Unit{}, fmt.Errorf("failed to delete customer %d: %w", cmd.CustomerID, err)
	}
	logger.InfoContext(ctx, "Successfully deleted customer")

	deleted := event.CustomerDeletedEvent{Timestamp: time.Now(), Payload: NewCustomerEventPayload(cust)}
	if pubErr := h.pub.PublishCustomerDeleted(ctx, deleted); pubErr != nil {
		logger.ErrorContext(ctx, "Customer deleted, but FAILED to publish deletion event", slog.Any("error", pubErr))
	}
	return pipeline.Unit{}, nil
}

func (h *Handlers) ListCustomers(ctx context.Context, q ListCustomersQuery) ([]*Customer, error) {
	h.logger.InfoContext(ctx, "Attempting to list customers",
		slog.Int("pageNumber", q.PageNumber),
		slog.Int("pageSize", q.PageSize),
	)

	customers, err := h.repo.FindPage(ctx, q.Offset(), q.PageSize)
	if err != nil {
		h.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	if customers == nil {
		customers = make([]*Customer, 0)
	}

	h.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (h *Handlers) GetCustomer(ctx context.Context, q GetCustomerQuery) (*Customer, error) {
	logger := h.logger.With(slog.Int64("customerID", q.CustomerID))
	logger.InfoContext(ctx, "Attempting to get customer by ID")

	cust, err := h.find(ctx, logger, q.CustomerID)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Successfully retrieved customer")
	return cust, nil
}

func (h *Handlers) find(ctx context.Context, logger *slog.Logger, customerID int64) (*Customer, error) {
	cust, err := h.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, customerNotFound)
			return nil, apperrors.NewNotFoundError(EntityName, customerID)
		}
		logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	return cust, nil
}

func NewCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID:  cust.ID,
		Name:        cust.Name,
		Email:       cust.Email,
		PhoneNumber: cust.PhoneNumber,
		DateOfBirth: cust.DateOfBirth.Format(DateLayout),
	}
}
