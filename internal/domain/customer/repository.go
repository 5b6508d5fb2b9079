package customer

import (
	"context"
)

type CustomerRepository interface {
	// Save inserts cust when its ID is zero and sets the assigned ID,
	// otherwise it overwrites the stored row with a single UPDATE.
	Save(ctx context.Context, cust *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	// FindPage returns at most limit customers in ascending ID order, skipping
	// the first offset. Past the end it returns an empty slice.
	FindPage(ctx context.Context, offset, limit int) ([]*Customer, error)

	Delete(ctx context.Context, customerID int64) error
}
