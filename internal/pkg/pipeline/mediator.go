// Package pipeline dispatches commands and queries to their handlers through
// an ordered chain of behaviors.
//
// Handlers are registered once, at start-up, under the request's name. Every
// Send runs the behaviors in registration order (the first one is the
// outermost) and finally the single handler for that request.
package pipeline

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoHandler = errors.New("no handler registered for request")

	ErrResponseType = errors.New("unexpected response type")
)

// Request is a command or a query.
type Request interface {
	RequestName() string
}

// Unit is the response of handlers that only report success or failure.
type Unit struct{}

type HandlerFunc func(ctx context.Context, req Request) (any, error)

// Behavior wraps the rest of the chain. It must call next at most once.
type Behavior func(ctx context.Context, req Request, next HandlerFunc) (any, error)

// Sender is the dispatch side of the Mediator, consumed by transports.
type Sender interface {
	Send(ctx context.Context, req Request) (any, error)
}

type Mediator struct {
	handlers  map[string]HandlerFunc
	behaviors []Behavior
}

var _ Sender = (*Mediator)(nil)

func NewMediator(behaviors ...Behavior) *Mediator {
	return &Mediator{
		handlers:  make(map[string]HandlerFunc),
		behaviors: behaviors,
	}
}

// Register binds name to h. Registering the same name twice panics.
func (m *Mediator) Register(name string, h HandlerFunc) {
	if h == nil {
		panic("pipeline: nil handler for " + name)
	}
	if _, exists := m.handlers[name]; exists {
		panic("pipeline: duplicate handler for " + name)
	}
	m.handlers[name] = h
}

func (m *Mediator) Send(ctx context.Context, req Request) (any, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrNoHandler)
	}
	name := req.RequestName()
	h, ok := m.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, name)
	}

	next := h
	for i := len(m.behaviors) - 1; i >= 0; i-- {
		next = bind(m.behaviors[i], next)
	}
	return next(ctx, req)
}

func bind(b Behavior, next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req Request) (any, error) {
		return b(ctx, req, next)
	}
}

// Handle registers a typed handler for Req. Req must be a value type whose
// zero value answers RequestName.
func Handle[Req Request, Res any](m *Mediator, h func(ctx context.Context, req Req) (Res, error)) {
	var zero Req
	name := zero.RequestName()
	m.Register(name, func(ctx context.Context, req Request) (any, error) {
		typed, ok := req.(Req)
		if !ok {
			return nil, fmt.Errorf("%w: handler for %s received %T", ErrResponseType, name, req)
		}
		return h(ctx, typed)
	})
}

// Send dispatches req and asserts the response to T.
func Send[T any](ctx context.Context, s Sender, req Request) (T, error) {
	var zero T
	res, err := s.Send(ctx, req)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	out, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T for %s", ErrResponseType, res, req.RequestName())
	}
	return out, nil
}
