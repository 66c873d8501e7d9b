package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/recipes-be/internal/database"
)

// Error classes. Handlers map these to status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrInvalidUsername = fmt.Errorf("%w: invalid username", ErrValidation)
	ErrInvalidPassword = fmt.Errorf("%w: invalid password", ErrValidation)
	ErrInvalidEmail    = fmt.Errorf("%w: invalid email", ErrValidation)
	ErrInvalidName     = fmt.Errorf("%w: invalid name", ErrValidation)

	ErrUsernameTaken = fmt.Errorf("%w: username", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email", ErrConflict)

	ErrUserNotFound       = fmt.Errorf("%w: user does not exist", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: credentials do not match", ErrUnauthorized)

	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrRecipeNotFound   = fmt.Errorf("recipe %w", ErrNotFound)
	ErrEmptyCategory    = fmt.Errorf("no recipes in category: %w", ErrNotFound)
)

// storeError translates storage errors into the service error classes.
// conflict is returned for unique constraint violations.
func storeError(err error, op string, conflict, notFound error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, sql.ErrNoRows):
		return notFound
	case conflict != nil && database.IsUniqueViolation(err):
		return conflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
