package usecase

import (
	"errors"
	"net/http"

	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// normalizePage clamps page to >= 1 and limit to 1..100, defaulting to 10.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// repoError translates repository sentinels into client errors.
func repoError(err error, notFound string) *apperror.AppError {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.New(http.StatusNotFound, notFound, err)
	case errors.Is(err, domain.ErrConflict):
		return apperror.New(http.StatusConflict, "The resource was modified by another request. Please retry.", err)
	case errors.Is(err, domain.ErrDuplicate):
		return apperror.New(http.StatusConflict, "Resource already exists", err)
	}
	return apperror.Internal(err)
}
