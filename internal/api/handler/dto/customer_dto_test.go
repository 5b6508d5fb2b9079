package dto

import (
	"encoding/json"
	"testing"
	"time"

	"customer-service/internal/domain/customer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{name: "plain date", input: `"1990-01-31"`, expected: time.Date(1990, 1, 31, 0, 0, 0, 0, time.UTC)},
		{name: "RFC 3339 timestamp", input: `"1990-01-31T10:20:30Z"`, expected: time.Date(1990, 1, 31, 10, 20, 30, 0, time.UTC)},
		{name: "null is zero", input: `null`, expected: time.Time{}},
		{name: "empty string is zero", input: `""`, expected: time.Time{}},
		{name: "unknown layout", input: `"31/01/1990"`, wantErr: true},
		{name: "not a string", input: `19900131`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(d.Time), "expected %v, got %v", tt.expected, d.Time)
		})
	}
}

func TestNewCustomerResponse(t *testing.T) {
	cust := &customer.Customer{
		ID:          7,
		Name:        "Customer 7",
		Email:       "customer7@example.com",
		PhoneNumber: "0123456789",
		DateOfBirth: time.Date(1989, 10, 19, 0, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(NewCustomerResponse(cust))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 7,
		"name": "Customer 7",
		"email": "customer7@example.com",
		"phoneNumber": "0123456789",
		"dateOfBirth": "1989-10-19"
	}`, string(body))
}

func TestNewCustomerListResponseIsNeverNull(t *testing.T) {
	body, err := json.Marshal(NewCustomerListResponse(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
}

func TestUpdateCustomerRequestCommand(t *testing.T) {
	var req UpdateCustomerRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"customerId": 3,
		"name": "Customer 3",
		"email": "c3@example.com",
		"phoneNumber": "0123456789",
		"dateOfBirth": "1980-02-29"
	}`), &req))

	cmd := req.Command()
	assert.Equal(t, int64(3), cmd.CustomerID)
	assert.Equal(t, "Customer 3", cmd.Name)
	assert.Equal(t, time.Date(1980, 2, 29, 0, 0, 0, 0, time.UTC), cmd.DateOfBirth)
}
