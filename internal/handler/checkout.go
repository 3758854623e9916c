package handler

import (
    "errors"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-booking/internal/apperr"
    "github.com/iliyamo/venue-booking/internal/checkout"
    "github.com/iliyamo/venue-booking/internal/middleware"
)

// CheckoutHandler exposes the checkout state machine over HTTP.
type CheckoutHandler struct {
    Service *checkout.Service
}

func NewCheckoutHandler(s *checkout.Service) *CheckoutHandler {
    return &CheckoutHandler{Service: s}
}

// respond answers a blocked checkout with a redirect to the venue page
// and every other error through respondError.
func (h *CheckoutHandler) respond(c echo.Context, venueID uint64, err error) error {
    if errors.Is(err, checkout.ErrBlocked) {
        return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/v1/venues/%d", venueID))
    }
    return respondError(c, err)
}

// Open handles GET /v1/venues/:id/checkout.
func (h *CheckoutHandler) Open(c echo.Context) error {
    venueID, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    view, err := h.Service.Open(ctx, middleware.SessionID(c), venueID)
    if err != nil {
        return h.respond(c, venueID, err)
    }
    return c.JSON(http.StatusOK, view)
}

type applyReferralReq struct {
    Code string `json:"code"`
}

// ApplyReferral handles POST /v1/venues/:id/checkout/referral.  A rejected
// code answers 422 with the unchanged view.
func (h *CheckoutHandler) ApplyReferral(c echo.Context) error {
    venueID, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    var req applyReferralReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    view, err := h.Service.ApplyReferral(ctx, middleware.SessionID(c), venueID, req.Code)
    if errors.Is(err, apperr.ErrReferralRejected) {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "Invalid referral code", "checkout": view})
    }
    if err != nil {
        return h.respond(c, venueID, err)
    }
    return c.JSON(http.StatusOK, view)
}

type splitReq struct {
    People int `json:"people"`
}

// Split handles POST /v1/venues/:id/checkout/split.
func (h *CheckoutHandler) Split(c echo.Context) error {
    venueID, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    var req splitReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    plan, err := h.Service.Split(ctx, middleware.SessionID(c), venueID, req.People)
    if err != nil {
        return h.respond(c, venueID, err)
    }
    return c.JSON(http.StatusOK, plan)
}

// Submit handles POST /v1/venues/:id/checkout.  Payment runs under its own
// timeout inside the service, so only the request context bounds it here.
func (h *CheckoutHandler) Submit(c echo.Context) error {
    venueID, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    var form checkout.Form
    if err := c.Bind(&form); err != nil {
        return badRequest(c, "invalid body")
    }

    conf, err := h.Service.Submit(c.Request().Context(), middleware.SessionID(c), venueID, optionalUserID(c), form)
    if err != nil {
        return h.respond(c, venueID, err)
    }
    return c.JSON(http.StatusCreated, conf)
}
