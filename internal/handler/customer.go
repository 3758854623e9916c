package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"

    "github.com/iliyamo/venue-booking/internal/apperr"
    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/payment"
    "github.com/iliyamo/venue-booking/internal/pricing"
    "github.com/iliyamo/venue-booking/internal/repository"
)

// CustomerHandler serves a signed-in customer's bookings, loyalty status
// and saved venues.
type CustomerHandler struct {
    Bookings *repository.BookingRepo
    Venues   *repository.VenueRepo
    Saved    *repository.SavedVenueRepo
    Payments payment.Processor
}

func NewCustomerHandler(b *repository.BookingRepo, v *repository.VenueRepo, s *repository.SavedVenueRepo, p payment.Processor) *CustomerHandler {
    return &CustomerHandler{Bookings: b, Venues: v, Saved: s, Payments: p}
}

// MyBookings handles GET /v1/my-bookings.
func (h *CustomerHandler) MyBookings(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Bookings.ListByUser(ctx, uid)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// GetBooking handles GET /v1/bookings/:id.  Other customers' bookings are
// reported as not found.
func (h *CustomerHandler) GetBooking(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    id, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    b, err := h.Bookings.GetByIDForUser(ctx, id, uid)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, b)
}

// CancelBooking handles POST /v1/bookings/:id/cancel.
func (h *CustomerHandler) CancelBooking(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    id, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Bookings.Cancel(ctx, id, uid); err != nil {
        return respondError(c, err)
    }
    b, err := h.Bookings.GetByIDForUser(ctx, id, uid)
    if err != nil {
        return respondError(c, err)
    }
    if err := h.refund(ctx, b); err != nil {
        log := zerolog.Ctx(ctx).With().Uint64("booking_id", id).Str("payment_ref", b.PaymentRef).Logger()
        log.Error().Err(err).Msg("refund for cancelled booking")
        if rerr := h.Bookings.Reinstate(context.WithoutCancel(ctx), id, uid); rerr != nil {
            log.Error().Err(rerr).Msg("reinstate booking after failed refund")
        }
        return respondError(c, apperr.Collaborator("payment", "refund", err))
    }
    return c.JSON(http.StatusOK, b)
}

// refund returns the charge behind b.  Free bookings carry no payment
// reference and need none.
func (h *CustomerHandler) refund(ctx context.Context, b *model.Booking) error {
    if b.PaymentRef == "" || h.Payments == nil {
        return nil
    }
    return h.Payments.Refund(ctx, payment.Receipt{Reference: b.PaymentRef, Amount: b.TotalAmount})
}

type loyaltyResp struct {
    Points     int64         `json:"points"`
    Tier       pricing.Tier  `json:"tier"`
    NextTier   *pricing.Tier `json:"next_tier,omitempty"`
    PointsToGo int64         `json:"points_to_next_tier"`
}

// Loyalty handles GET /v1/me/loyalty.
func (h *CustomerHandler) Loyalty(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    points, err := h.Bookings.LoyaltyPoints(ctx, uid)
    if err != nil {
        return respondError(c, err)
    }
    resp := loyaltyResp{Points: points, Tier: pricing.TierFor(points)}
    if next, needed, ok := pricing.NextTier(points); ok {
        resp.NextTier = &next
        resp.PointsToGo = needed
    }
    return c.JSON(http.StatusOK, resp)
}

// SavedVenues handles GET /v1/saved-venues.
func (h *CustomerHandler) SavedVenues(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Saved.List(ctx, uid)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// SaveVenue handles POST /v1/saved-venues/:id.  Only approved venues can
// be saved.
func (h *CustomerHandler) SaveVenue(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    venueID, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Venues.GetApproved(ctx, venueID); err != nil {
        return respondError(c, err)
    }
    if err := h.Saved.Save(ctx, uid, venueID); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// RemoveSavedVenue handles DELETE /v1/saved-venues/:id.
func (h *CustomerHandler) RemoveSavedVenue(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    venueID, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Saved.Remove(ctx, uid, venueID); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
