package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-booking/internal/handler"
    "github.com/iliyamo/venue-booking/internal/middleware"
    "github.com/iliyamo/venue-booking/internal/model"
)

// RegisterOwner registers the owner console under /v1/owner.  Registration
// itself is session-scoped and lives in RegisterSession.
func RegisterOwner(e *echo.Echo, h *handler.OwnerHandler, jwtSecret string) {
    g := e.Group(
        "/v1/owner",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleOwner),
    )
    g.GET("/status", h.Status)
    g.GET("/venues", h.ListVenues)
    g.PATCH("/venues/:id", h.UpdateVenue)
    g.POST("/venues/:id/tickets", h.CreateTicket)
    g.POST("/venues/:id/tables", h.CreateTable)
    g.GET("/venues/:id/bookings", h.VenueBookings)
}

// RegisterAdmin registers the approval queue, referral codes and the
// bookings overview under /v1/admin.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
    g := e.Group(
        "/v1/admin",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAdmin),
    )
    g.GET("/venues/pending", h.Pending)
    g.POST("/venues/:id/approve", h.Approve)
    g.POST("/venues/:id/reject", h.Reject)

    g.GET("/referrals", h.ListReferrals)
    g.POST("/referrals", h.CreateReferral)
    g.DELETE("/referrals/:code", h.DeleteReferral)

    g.GET("/bookings", h.ListBookings)
}
