package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-booking/internal/handler"
    "github.com/iliyamo/venue-booking/internal/middleware"
    "github.com/iliyamo/venue-booking/internal/model"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Ownership of each
// booking is checked in the handler.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleCustomer),
    )
    g.GET("/my-bookings", h.MyBookings)
    g.GET("/bookings/:id", h.GetBooking)
    g.POST("/bookings/:id/cancel", h.CancelBooking)
    g.GET("/me/loyalty", h.Loyalty)

    g.GET("/saved-venues", h.SavedVenues)
    g.POST("/saved-venues/:id", h.SaveVenue)
    g.DELETE("/saved-venues/:id", h.RemoveSavedVenue)
}
