// Package handler contains the thin HTTP layer. Handlers decode requests
// into typed commands, hand them to the core and render the outcome.
package handler

import (
	"errors"

	"wareflow/internal/service"
	"wareflow/pkg/apierror"
)

// serviceError maps the core's sentinel errors to structured API errors.
func serviceError(err error) *apierror.Error {
	switch {
	case errors.Is(err, service.ErrUserExists), errors.Is(err, service.ErrItemExists):
		return apierror.Conflict(err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return apierror.NotFound(err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		return apierror.Unauthorized(err.Error())
	case errors.Is(err, service.ErrAdminRequired):
		return apierror.Forbidden(err.Error())
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInsufficientStock):
		return apierror.BadRequest(err.Error())
	default:
		return apierror.InternalError("an unexpected error occurred")
	}
}
