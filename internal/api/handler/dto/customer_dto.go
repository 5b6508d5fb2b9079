package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
)

// Date is a calendar date. It marshals as "YYYY-MM-DD" and also accepts an
// RFC 3339 timestamp on input. JSON null or "" leave it zero.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(customer.DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDate accepts "YYYY-MM-DD" or RFC 3339. The empty string is the zero date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(customer.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

type CreateCustomerRequest struct {
	Name        string `json:"name" example:"Customer 26"`
	Email       string `json:"email" example:"customer26@example.com"`
	PhoneNumber string `json:"phoneNumber" example:"0123456789"`
	DateOfBirth Date   `json:"dateOfBirth" swaggertype:"string" format:"date" example:"1990-01-31"`
}

func (r CreateCustomerRequest) Command() customer.CreateCustomerCommand {
	return customer.CreateCustomerCommand{
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		DateOfBirth: r.DateOfBirth.Time,
	}
}

type UpdateCustomerRequest struct {
	CustomerID  int64  `json:"customerId" example:"26"`
	Name        string `json:"name" example:"Customer 26"`
	Email       string `json:"email" example:"customer26@example.com"`
	PhoneNumber string `json:"phoneNumber" example:"0123456789"`
	DateOfBirth Date   `json:"dateOfBirth" swaggertype:"string" format:"date" example:"1990-01-31"`
}

func (r UpdateCustomerRequest) Command() customer.UpdateCustomerCommand {
	return customer.UpdateCustomerCommand{
		CustomerID:  r.CustomerID,
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		DateOfBirth: r.DateOfBirth.Time,
	}
}

type CustomerResponse struct {
	ID          int64  `json:"id" example:"1"`
	Name        string `json:"name" example:"Customer 1"`
	Email       string `json:"email" example:"customer1@example.com"`
	PhoneNumber string `json:"phoneNumber" example:"0123456789"`
	DateOfBirth Date   `json:"dateOfBirth" swaggertype:"string" format:"date" example:"1995-10-19"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:          cust.ID,
		Name:        cust.Name,
		Email:       cust.Email,
		PhoneNumber: cust.PhoneNumber,
		DateOfBirth: NewDate(cust.DateOfBirth),
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, NewCustomerResponse(c))
	}
	return resp
}

type ErrorDetail struct {
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Fields  []apperrors.FieldError `json:"fields,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username" example:"admin"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
