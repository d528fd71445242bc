package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"

	"github.com/meinhoongagan/home-services/services"
	"github.com/meinhoongagan/home-services/storage"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Message string       `json:"message"`
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// ErrorLocal is the fiber.Ctx local holding the error behind a 5xx reply.
const ErrorLocal = "error"

// StatusFor maps domain and storage errors to HTTP status codes.
func StatusFor(err error) int {
	var (
		validation *ValidationError
		fiberErr   *fiber.Error
	)
	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, ErrBadBody),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrBookingNotFinished):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrTokenRevoked),
		errors.Is(err, ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, services.ErrProfileRequired):
		return fiber.StatusNotFound
	case errors.Is(err, storage.ErrConflict),
		errors.Is(err, storage.ErrStaleStatus),
		errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrProfileExists),
		errors.Is(err, services.ErrAlreadyPaid),
		errors.Is(err, services.ErrAlreadyReviewed),
		errors.Is(err, services.ErrCredentialLocked):
		return fiber.StatusConflict
	case errors.Is(err, ErrUploadsDisabled):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// SendError writes err as an ErrorResponse. Internal errors are hidden from
// the client and left in the ErrorLocal for the request logger.
func SendError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	resp := ErrorResponse{
		Message: err.Error(),
		Error:   fiberutils.StatusMessage(status),
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		resp.Message = "Validation failed"
		resp.Details = validation.Fields
	}
	if status >= fiber.StatusInternalServerError && status != fiber.StatusServiceUnavailable {
		c.Locals(ErrorLocal, err)
		resp.Message = "Internal server error"
	}
	return c.Status(status).JSON(resp)
}

// ErrorHandler is the fiber.Config ErrorHandler. It renders errors that
// escape handlers, including fiber's own 404 and 405.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return SendError(c, err)
}
