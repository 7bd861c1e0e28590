package http

import (
	"errors"
	"net/http"

	"lockers/internal/core/application/usecases/commands"
	"lockers/internal/core/domain/model/listing"
	"lockers/internal/core/domain/model/locker"
	"lockers/internal/core/domain/model/order"
	"lockers/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var errMissingUserID = errs.NewValueIsRequiredError("X-User-ID header")

// conflicts are rule violations caused by the order's current state.
var conflicts = []error{
	order.ErrInvalidStatusTransition,
	order.ErrPaymentDeadlinePassed,
	order.ErrPinExpired,
	locker.ErrNoCompartmentAvailable,
	locker.ErrLockerIsInactive,
	listing.ErrListingUnavailable,
	errs.ErrConcurrentModification,
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrNotOrderParticipant):
		return http.StatusForbidden
	case errors.Is(err, commands.ErrTooManyPinAttempts):
		return http.StatusTooManyRequests
	}
	for _, c := range conflicts {
		if errors.Is(err, c) {
			return http.StatusConflict
		}
	}
	switch {
	case errors.Is(err, order.ErrPinMismatch),
		errors.Is(err, listing.ErrSelfPurchase),
		errors.Is(err, order.ErrBuyerIsSeller),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c echo.Context, err error) error {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err)
		msg = "internal error"
	}
	return c.JSON(code, ErrorResponse{Code: code, Message: msg})
}
