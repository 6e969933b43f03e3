package validator

import (
	"errors"
	"reflect"
	"strings"
	"time"

	playground "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

var structValidator = newStructValidator()

func newStructValidator() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())

	// Report fields by their JSON names so errors line up with request bodies.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs the `validate` struct tags on s and converts failures
// into ValidationErrors. Returns nil when s is valid.
func ValidateStruct(s interface{}) ValidationErrors {
	err := structValidator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{Field: fe.Field(), Message: describe(fe)})
	}
	return errs
}

func describe(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "min":
		return "is too short (minimum " + fe.Param() + ")"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "uuid":
		return "must be a valid UUID"
	case "nefield":
		return "must differ from " + fe.Param()
	case "dive", "unique":
		return "contains invalid or repeated values"
	default:
		return "is invalid"
	}
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidDate parses a YYYY-MM-DD calendar date.
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsInSlice reports whether value is one of slice.
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// IsUUID reports whether s is a UUID in canonical hyphenated form.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// RequiredUUID appends an error for field unless value is a UUID.
func RequiredUUID(errs ValidationErrors, field, value string) ValidationErrors {
	if IsEmpty(value) {
		return append(errs, ValidationError{Field: field, Message: "is required"})
	}
	if !IsUUID(value) {
		return append(errs, ValidationError{Field: field, Message: "must be a valid UUID"})
	}
	return errs
}

// OptionalUUID appends an error for field when value is set but not a UUID.
func OptionalUUID(errs ValidationErrors, field string, value *string) ValidationErrors {
	if value == nil || *value == "" {
		return errs
	}
	if !IsUUID(*value) {
		return append(errs, ValidationError{Field: field, Message: "must be a valid UUID"})
	}
	return errs
}

// OptionalOneOf appends an error for field when value is set but not in allowed.
func OptionalOneOf(errs ValidationErrors, field string, value *string, allowed []string) ValidationErrors {
	if value == nil || *value == "" {
		return errs
	}
	if !IsInSlice(*value, allowed) {
		return append(errs, ValidationError{Field: field, Message: "must be one of: " + strings.Join(allowed, ", ")})
	}
	return errs
}

// NonNegative appends an error for field when amount is below zero.
func NonNegative(errs ValidationErrors, field string, amount decimal.Decimal) ValidationErrors {
	if amount.IsNegative() {
		return append(errs, ValidationError{Field: field, Message: "must be non-negative"})
	}
	return errs
}

// Positive appends an error for field unless amount is above zero.
func Positive(errs ValidationErrors, field string, amount decimal.Decimal) ValidationErrors {
	if !amount.IsPositive() {
		return append(errs, ValidationError{Field: field, Message: "must be greater than zero"})
	}
	return errs
}

// AtMostTwoDecimals appends an error for field when amount has sub-paisa precision.
func AtMostTwoDecimals(errs ValidationErrors, field string, amount decimal.Decimal) ValidationErrors {
	if !amount.Equal(amount.Round(2)) {
		return append(errs, ValidationError{Field: field, Message: "must have at most two decimal places"})
	}
	return errs
}
