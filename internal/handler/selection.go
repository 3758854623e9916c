package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-booking/internal/apperr"
    "github.com/iliyamo/venue-booking/internal/middleware"
    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/repository"
    "github.com/iliyamo/venue-booking/internal/session"
)

// SelectionHandler manages the session's ticket/table choice for a venue.
// Prices are always copied from storage; the client only sends ids.
type SelectionHandler struct {
    Venues   *repository.VenueRepo
    Offers   *repository.OfferRepo
    Sessions session.Store
    now      func() time.Time
}

func NewSelectionHandler(v *repository.VenueRepo, o *repository.OfferRepo, s session.Store) *SelectionHandler {
    return &SelectionHandler{Venues: v, Offers: o, Sessions: s, now: time.Now}
}

type selectionReq struct {
    TicketID *uint64 `json:"ticket_id"`
    TableID  *uint64 `json:"table_id"`
    Date     string  `json:"date"`   // YYYY-MM-DD, required with table_id
    Time     string  `json:"time"`   // HH:MM, required with table_id
    Guests   uint32  `json:"guests"` // required with table_id
}

// validate checks the request shape against the chosen table.  today is
// the earliest bookable date.
func (r selectionReq) validate(table *model.Table, today time.Time) error {
    if table == nil {
        return nil
    }
    verr := &apperr.ValidationError{}
    if d, err := time.Parse("2006-01-02", r.Date); err != nil {
        verr.Add("date", "Date must be YYYY-MM-DD")
    } else if d.Before(today) {
        verr.Add("date", "Date must not be in the past")
    }
    if _, err := time.Parse("15:04", r.Time); err != nil {
        verr.Add("time", "Time must be HH:MM")
    }
    switch {
    case r.Guests == 0:
        verr.Add("guests", "Number of guests is required")
    case table.MinGuests > 0 && r.Guests < table.MinGuests:
        verr.Add("guests", "Too few guests for this table")
    case table.MaxGuests > 0 && r.Guests > table.MaxGuests:
        verr.Add("guests", "Too many guests for this table")
    }
    return verr.OrNil()
}

// Put handles PUT /v1/venues/:id/selection.  A new choice replaces the
// whole selection and drops any applied referral.
func (h *SelectionHandler) Put(c echo.Context) error {
    venueID, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    var req selectionReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    if req.TicketID == nil && req.TableID == nil {
        return respondError(c, &apperr.ValidationError{Fields: map[string]string{"selection": "Select a ticket or a table"}})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    venue, err := h.Venues.GetApproved(ctx, venueID)
    if err != nil {
        return respondError(c, err)
    }
    sel := &model.Selection{VenueID: venue.ID, VenueName: venue.Name, CreatedAt: h.now().UTC()}

    if req.TicketID != nil {
        t, err := h.Offers.GetTicket(ctx, venueID, *req.TicketID)
        if err != nil {
            return respondError(c, err)
        }
        sel.Ticket = &model.SelectedTicket{ID: t.ID, Name: t.Name, Price: t.Price}
    }
    var table *model.Table
    if req.TableID != nil {
        if table, err = h.Offers.GetTable(ctx, venueID, *req.TableID); err != nil {
            return respondError(c, err)
        }
        sel.Table = &model.SelectedTable{
            ID:     table.ID,
            Name:   table.Name,
            Price:  table.Price,
            Date:   strings.TrimSpace(req.Date),
            Time:   strings.TrimSpace(req.Time),
            Guests: req.Guests,
        }
    }
    today := h.now().UTC().Truncate(24 * time.Hour)
    if err := req.validate(table, today); err != nil {
        return respondError(c, err)
    }
    if err := sel.Validate(); err != nil {
        return respondError(c, apperr.Invariant(err.Error()))
    }

    sid := middleware.SessionID(c)
    // The referral belongs to the previous selection.
    if err := h.Sessions.ClearSelection(ctx, sid); err != nil {
        return respondError(c, apperr.Collaborator("session", "clear selection", err))
    }
    if err := h.Sessions.SaveSelection(ctx, sid, sel); err != nil {
        return respondError(c, apperr.Collaborator("session", "save selection", err))
    }
    return c.JSON(http.StatusOK, sel)
}

// Get handles GET /v1/venues/:id/selection.
func (h *SelectionHandler) Get(c echo.Context) error {
    venueID, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    sel, err := h.Sessions.LoadSelection(ctx, middleware.SessionID(c))
    if errors.Is(err, session.ErrNotFound) || (err == nil && sel.VenueID != venueID) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no selection for this venue"})
    }
    if err != nil {
        return respondError(c, apperr.Collaborator("session", "load selection", err))
    }
    return c.JSON(http.StatusOK, sel)
}

// Delete handles DELETE /v1/venues/:id/selection.
func (h *SelectionHandler) Delete(c echo.Context) error {
    if _, err := parseID(c, "id"); err != nil {
        return badRequest(c, err.Error())
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Sessions.ClearSelection(ctx, middleware.SessionID(c)); err != nil {
        return respondError(c, apperr.Collaborator("session", "clear selection", err))
    }
    return c.NoContent(http.StatusNoContent)
}
