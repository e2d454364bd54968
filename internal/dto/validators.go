package dto

import (
	"fmt"
	"reflect"
	"time"

	"github.com/SscSPs/erp_finance_core/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators adds the custom binding tags used by the request DTOs.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("money", validateMoney); err != nil {
		return fmt.Errorf("registering money validator: %w", err)
	}
	if err := v.RegisterValidation("classification", func(fl validator.FieldLevel) bool {
		return domain.Classification(fl.Field().String()).IsValid()
	}); err != nil {
		return fmt.Errorf("registering classification validator: %w", err)
	}
	if err := v.RegisterValidation("resourcetype", func(fl validator.FieldLevel) bool {
		return domain.ResourceType(fl.Field().String()).IsValid()
	}); err != nil {
		return fmt.Errorf("registering resourcetype validator: %w", err)
	}
	return nil
}

// validateMoney accepts non-negative amounts with at most two decimal places.
func validateMoney(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return false
	}
	_, err = domain.AmountFromDecimal(d)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseOptionalDate parses s when it is non-empty.
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
