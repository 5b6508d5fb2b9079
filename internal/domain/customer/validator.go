package customer

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"customer-service/internal/pkg/apperrors"
	"customer-service/internal/pkg/pipeline"

	"github.com/go-playground/validator/v10"
)

// MaxAgeYears bounds how far in the past a date of birth may lie.
const MaxAgeYears = 120

var phoneNumberPattern = regexp.MustCompile(`^\d{10}$`)

// messages maps "field.tag" to the text reported for that broken rule.
var messages = map[string]string{
	"name.notblank":        "Name is required.",
	"email.required":       "Email is required.",
	"email.email":          "A valid email address is required.",
	"phoneNumber.required": "Phone Number is required.",
	"phoneNumber.phone10":  "Phone number must be 10 digits.",
	"dateOfBirth.required": "Date of birth is required.",
	"dateOfBirth.pastdate": "Date of birth cannot be in the future.",
	"dateOfBirth.maxage":   "Date of birth cannot be more than 120 years ago.",
	"pageNumber.gte":       "PageNumber at least greater than or equal to 1.",
	"pageSize.gte":         "PageSize at least greater than or equal to 1.",
	"customerId.required":  "Customer Id is required.",
}

// Validator checks customer commands and queries against their struct tags.
// It never touches the store.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator builds a Validator. A nil now defaults to time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      now,
	}

	mustRegister(v.validate, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v.validate, "phone10", func(fl validator.FieldLevel) bool {
		return phoneNumberPattern.MatchString(fl.Field().String())
	})
	mustRegister(v.validate, "pastdate", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.Before(v.now())
	})
	mustRegister(v.validate, "maxage", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.After(v.now().AddDate(-MaxAgeYears, 0, 0))
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("customer: register validation %q: %v", tag, err))
	}
}

// Check returns every broken rule of req. Each rule of a field is evaluated
// on its own, so an empty email reports both the required and the format
// rule. Failures follow field declaration order, then rule order.
func (v *Validator) Check(req any) []apperrors.FieldError {
	val := reflect.Indirect(reflect.ValueOf(req))
	if val.Kind() != reflect.Struct {
		return []apperrors.FieldError{{Message: fmt.Sprintf("cannot validate %T", req)}}
	}

	var failures []apperrors.FieldError
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		rules := sf.Tag.Get("validate")
		if !sf.IsExported() || rules == "" || rules == "-" {
			continue
		}

		field := fieldName(sf)
		value := val.Field(i).Interface()
		for _, rule := range strings.Split(rules, ",") {
			err := v.validate.Var(value, rule)
			if err == nil {
				continue
			}
			var validationErrors validator.ValidationErrors
			if !errors.As(err, &validationErrors) {
				failures = append(failures, apperrors.FieldError{Field: field, Message: err.Error()})
				continue
			}
			for _, fe := range validationErrors {
				failures = append(failures, apperrors.FieldError{Field: field, Message: messageFor(field, fe)})
			}
		}
	}
	return failures
}

func fieldName(sf reflect.StructField) string {
	name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return sf.Name
	}
	return name
}

func messageFor(field string, fe validator.FieldError) string {
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return msg
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed rule %s=%s.", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed rule %s.", field, fe.Tag())
}

// RegisterValidators adds the customer validators to vs.
func RegisterValidators(vs pipeline.Validators, v *Validator) {
	pipeline.AddValidator(vs, func(cmd CreateCustomerCommand) []apperrors.FieldError { return v.Check(cmd) })
	pipeline.AddValidator(vs, func(cmd UpdateCustomerCommand) []apperrors.FieldError { return v.Check(cmd) })
	pipeline.AddValidator(vs, func(cmd DeleteCustomerCommand) []apperrors.FieldError { return v.Check(cmd) })
	pipeline.AddValidator(vs, func(q ListCustomersQuery) []apperrors.FieldError { return v.Check(q) })
	pipeline.AddValidator(vs, func(q GetCustomerQuery) []apperrors.FieldError { return v.Check(q) })
}
