package customer

import (
	"math"
	"time"
)

// Default paging for ListCustomersQuery.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

type CreateCustomerCommand struct {
	Name        string    `json:"name" validate:"notblank"`
	Email       string    `json:"email" validate:"required,email"`
	PhoneNumber string    `json:"phoneNumber" validate:"required,phone10"`
	DateOfBirth time.Time `json:"dateOfBirth" validate:"required,pastdate,maxage"`
}

func (CreateCustomerCommand) RequestName() string { return "CreateCustomerCommand" }

type UpdateCustomerCommand struct {
	CustomerID  int64     `json:"customerId" validate:"required"`
	Name        string    `json:"name" validate:"notblank"`
	Email       string    `json:"email" validate:"required,email"`
	PhoneNumber string    `json:"phoneNumber" validate:"required,phone10"`
	DateOfBirth time.Time `json:"dateOfBirth" validate:"required,pastdate,maxage"`
}

func (UpdateCustomerCommand) RequestName() string { return "UpdateCustomerCommand" }

type DeleteCustomerCommand struct {
	CustomerID int64 `json:"customerId" validate:"required"`
}

func (DeleteCustomerCommand) RequestName() string { return "DeleteCustomerCommand" }

type ListCustomersQuery struct {
	PageNumber int `json:"pageNumber" validate:"gte=1"`
	PageSize   int `json:"pageSize" validate:"gte=1"`
}

func (ListCustomersQuery) RequestName() string { return "ListCustomersQuery" }

// Offset is the number of rows skipped before this page. It saturates at
// math.MaxInt so a page far past the end still reads as empty.
func (q ListCustomersQuery) Offset() int {
	if q.PageNumber <= 1 || q.PageSize <= 0 {
		return 0
	}
	if q.PageNumber-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return (q.PageNumber - 1) * q.PageSize
}

type GetCustomerQuery struct {
	CustomerID int64 `json:"customerId" validate:"required"`
}

func (GetCustomerQuery) RequestName() string { return "GetCustomerQuery" }
