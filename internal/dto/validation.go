package dto

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidations teaches v about decimal.Decimal and adds the
// decimal_nonneg and decimal_positive tags used by the journal requests.
func RegisterValidations(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("decimal_nonneg", func(fl validator.FieldLevel) bool {
		d, ok := parseDecimalField(fl)
		return ok && !d.IsNegative()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("decimal_positive", func(fl validator.FieldLevel) bool {
		d, ok := parseDecimalField(fl)
		return ok && d.IsPositive()
	})
}

func parseDecimalField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(field.String())
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
