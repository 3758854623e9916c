package router

import (
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-booking/internal/handler"
    "github.com/iliyamo/venue-booking/internal/middleware"
)

// RegisterSession registers the routes keyed by the checkout session id:
// selection, checkout and owner registration.  A bearer token is optional;
// when present the booking is linked to the customer.
func RegisterSession(e *echo.Echo, sel *handler.SelectionHandler, co *handler.CheckoutHandler, owner *handler.OwnerHandler,
    jwtSecret string, sessionTTL time.Duration, limit echo.MiddlewareFunc) {
    scoped := []echo.MiddlewareFunc{middleware.Session(sessionTTL), middleware.OptionalJWT(jwtSecret)}

    v := e.Group("/v1/venues/:id", scoped...)
    v.PUT("/selection", sel.Put)
    v.GET("/selection", sel.Get)
    v.DELETE("/selection", sel.Delete)
    v.GET("/checkout", co.Open)
    v.POST("/checkout/referral", co.ApplyReferral)
    v.POST("/checkout/split", co.Split)
    v.POST("/checkout", co.Submit, limit)

    r := e.Group("/v1/owner/register", scoped...)
    r.PUT("/draft", owner.SaveDraft)
    r.GET("/draft", owner.LoadDraft)
    r.POST("", owner.Register, limit)
}
