package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-booking/internal/repository"
)

// VenueHandler serves the public venue catalogue.  Only approved venues
// are visible.
type VenueHandler struct {
    Venues *repository.VenueRepo
    Offers *repository.OfferRepo
}

func NewVenueHandler(v *repository.VenueRepo, o *repository.OfferRepo) *VenueHandler {
    return &VenueHandler{Venues: v, Offers: o}
}

// List handles GET /v1/venues?type=club.
func (h *VenueHandler) List(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    venues, err := h.Venues.ListApproved(ctx, strings.ToLower(strings.TrimSpace(c.QueryParam("type"))))
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": venues, "count": len(venues)})
}

// Get handles GET /v1/venues/:id and includes the venue's offers.
func (h *VenueHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    v, err := h.Venues.GetApproved(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    if v.Tickets, err = h.Offers.ListTickets(ctx, id); err != nil {
        return respondError(c, err)
    }
    if v.Tables, err = h.Offers.ListTables(ctx, id); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, v)
}
