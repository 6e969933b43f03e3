package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/auth"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/common"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/payroll"
	"github.com/sitework-erp/labour-ledger-go/internal/domain/user"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Field-level validation
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Negative net carries the numbers a person needs to review it
	var negativeNet *payroll.NegativeNetError
	if errors.As(err, &negativeNet) {
		InvariantViolation(w, negativeNet.Error(), negativeNet.Details())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrActorRequired):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Ledger error categories
	case errors.Is(err, common.ErrNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, common.ErrValidation):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, common.ErrStateConflict):
		Conflict(w, err.Error())
	case errors.Is(err, common.ErrInvariantViolation):
		InvariantViolation(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
