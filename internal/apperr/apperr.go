package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error is the typed failure every service layer returns. The fiber
// ErrorHandler converts it to the uniform response envelope so nothing
// untyped crosses into the transport layer.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: fiber.StatusNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Status: fiber.StatusConflict, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: fiber.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: fiber.StatusForbidden, Message: message}
}

func Internal(err error) *Error {
	return &Error{Status: fiber.StatusInternalServerError, Message: "Internal Server Error", Err: err}
}

// uniqueViolation is the Postgres error code for duplicate unique keys.
const uniqueViolation = "23505"

// FromStore maps a repository failure to the taxonomy: missing rows become
// 404s, duplicate-key races become conflicts (no in-process locking, the
// unique constraint is the arbiter), everything else is internal.
func FromStore(err error, notFoundMessage string) *Error {
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(notFoundMessage)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return Conflict("Duplicate record")
	}
	return Internal(err)
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
