package domain

import "errors"

// Repository sentinels. Use cases translate these into apperror values.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("duplicate resource")
	ErrConflict  = errors.New("resource changed concurrently")
)
