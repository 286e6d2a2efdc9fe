package services

import (
	"errors"

	"inventory-order-service/apperrors"
	"inventory-order-service/repository"
)

// mapError turns a repository error into an apperrors.Error. notFound is
// used for repository.ErrNotFound. Errors that already carry a kind are
// returned as they are.
func mapError(err error, notFound *apperrors.Error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, repository.ErrTransient):
		return apperrors.Transient(err)
	case errors.Is(err, repository.ErrNotFound):
		if notFound != nil {
			return notFound
		}
		return apperrors.NotFound("Record")
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.Conflict("A record with the same unique value already exists", err)
	case errors.Is(err, repository.ErrForeignKey):
		return apperrors.Conflict("The record is referenced by other records or references a missing one", err)
	}
	return apperrors.Internal("Internal server error", err)
}
