package handler

import (
	"errors"

	"employee-portal/internal/domain"
	"employee-portal/internal/transport/http/ez"
)

// employeeErr maps a service error onto the response the portal frontend
// expects. failMsg is the message for storage failures.
func employeeErr(err error, failMsg string) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return ez.BadRequest("Invalid employee data", ve.Fields...)
	case errors.Is(err, domain.ErrNotFound):
		return ez.NotFound("Employee not found.")
	case errors.Is(err, domain.ErrDuplicateKey):
		return ez.Conflict("An employee with this email already exists", err)
	case errors.Is(err, domain.ErrVersionConflict):
		return ez.Conflict("Employee was modified by someone else, reload and retry", err)
	default:
		return ez.Internal(failMsg, err)
	}
}
