package service

import (
	"errors"

	"employee-portal/internal/domain"
)

// storeErr keeps taxonomy errors as they are and reports anything else,
// including deadlines, as a storage failure.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrStorageUnavailable),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrDuplicateKey),
		errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrValidation):
		return err
	}
	return domain.Unavailable(op, err)
}
