package customer

import (
	"time"
)

// EntityName is the entity kind reported in not-found errors.
const EntityName = "Customer"

// DateLayout is the wire and storage form of a date of birth.
const DateLayout = "2006-01-02"

type Customer struct {
	ID          int64
	Name        string
	Email       string
	PhoneNumber string
	DateOfBirth time.Time
}

// NewCustomer returns an unsaved customer. The store assigns ID on insert.
func NewCustomer(name, email, phoneNumber string, dateOfBirth time.Time) *Customer {
	return &Customer{
		Name:        name,
		Email:       email,
		PhoneNumber: phoneNumber,
		DateOfBirth: truncateToDate(dateOfBirth),
	}
}

// Overwrite replaces every mutable field. ID is left untouched.
func (c *Customer) Overwrite(name, email, phoneNumber string, dateOfBirth time.Time) {
	c.Name = name
	c.Email = email
	c.PhoneNumber = phoneNumber
	c.DateOfBirth = truncateToDate(dateOfBirth)
}

func truncateToDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
