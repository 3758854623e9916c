package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"

    "github.com/iliyamo/venue-booking/internal/apperr"
    "github.com/iliyamo/venue-booking/internal/repository"
)

// statusFor maps domain errors onto HTTP status codes.  Order matters:
// a payment timeout is a CollaboratorError too, but reports 504.
func statusFor(err error) int {
    var collab *apperr.CollaboratorError
    switch {
    case errors.Is(err, apperr.ErrReferralRejected):
        return http.StatusUnprocessableEntity
    case errors.Is(err, repository.ErrVenueNotFound),
        errors.Is(err, repository.ErrOfferNotFound),
        errors.Is(err, repository.ErrBookingNotFound),
        errors.Is(err, repository.ErrUserNotFound),
        errors.Is(err, repository.ErrOwnerNotFound),
        errors.Is(err, repository.ErrReferralNotFound):
        return http.StatusNotFound
    case errors.Is(err, repository.ErrForbidden):
        return http.StatusForbidden
    case errors.Is(err, repository.ErrConflict),
        errors.Is(err, repository.ErrEmailExists),
        errors.Is(err, apperr.ErrStateGuard),
        errors.Is(err, apperr.ErrSubmitInFlight):
        return http.StatusConflict
    case errors.Is(err, apperr.ErrInvariant):
        return http.StatusBadRequest
    case errors.Is(err, apperr.ErrPaymentDeclined):
        return http.StatusPaymentRequired
    case errors.Is(err, apperr.ErrTimeout):
        return http.StatusGatewayTimeout
    case errors.As(err, &collab) && collab.Collaborator == "payment":
        return http.StatusBadGateway
    }
    return http.StatusInternalServerError
}

// respondError writes err as {"error": ...}.  Validation failures add a
// per-field "fields" map.  Internal errors are logged and answered with a
// generic message.
func respondError(c echo.Context, err error) error {
    var verr *apperr.ValidationError
    if errors.As(err, &verr) {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": verr.Fields})
    }
    status := statusFor(err)
    if status >= http.StatusInternalServerError {
        zerolog.Ctx(c.Request().Context()).Error().Err(err).Int("status", status).Msg("request failed")
        if status == http.StatusInternalServerError {
            return c.JSON(status, echo.Map{"error": "internal error"})
        }
    }
    return c.JSON(status, echo.Map{"error": err.Error()})
}
