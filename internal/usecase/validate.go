package usecase

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Notifier accepts events for best-effort delivery. Emit must not block.
type Notifier interface {
	Emit(n domain.Notification)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs struct tag validation and reports the first failing
// field as a domain validation error.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate input: %w", err)
	}

	fe := fieldErrs[0]
	return domain.Invalid(snakeCase(fe.Field()), reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " long"
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return "failed " + fe.Tag()
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(rune(s[i-1])) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Column limits of the NUMERIC(precision, scale) fields in storage.
const (
	amountPrecision, amountScale = 12, 2
	pricePrecision, priceScale   = 12, 4
)

// checkNumeric rejects values a NUMERIC(precision, scale) column would round
// or refuse: more than scale fractional digits, or at least
// 10^(precision-scale) in magnitude.
func checkNumeric(field string, d decimal.Decimal, precision, scale int32) error {
	if !d.Equal(d.Truncate(scale)) {
		return domain.Invalid(field, fmt.Sprintf("must have at most %d decimal places", scale))
	}
	if d.Abs().GreaterThanOrEqual(decimal.New(1, precision-scale)) {
		return domain.Invalid(field, "must be less than "+decimal.New(1, precision-scale).String())
	}
	return nil
}

func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, maxLimit)
}
