// Package approval implements the admin review of pending venues.  A
// decision is a conditional update from pending, so two admins deciding
// the same venue cannot both succeed.
package approval

import (
    "context"
    "errors"
    "strings"
    "time"

    "github.com/rs/zerolog"

    "github.com/iliyamo/venue-booking/internal/apperr"
    "github.com/iliyamo/venue-booking/internal/metrics"
    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/notify"
    "github.com/iliyamo/venue-booking/internal/repository"
)

// DefaultRejectionReason is stored when the admin gives no reason.
const DefaultRejectionReason = "No reason provided"

// Store is the venue storage used by the workflow.
type Store interface {
    ListPending(ctx context.Context) ([]model.PendingVenue, error)
    GetWithOwner(ctx context.Context, id uint64) (model.PendingVenue, error)
    TransitionFromPending(ctx context.Context, id uint64, to model.VenueStatus, approvedAt *time.Time, reason *string) error
}

// Workflow approves and rejects pending venues.
type Workflow struct {
    store    Store
    notifier notify.Notifier
    appURL   string
    log      zerolog.Logger
    now      func() time.Time
}

func NewWorkflow(store Store, notifier notify.Notifier, appURL string, log zerolog.Logger) *Workflow {
    if notifier == nil {
        notifier = notify.Discard
    }
    return &Workflow{
        store:    store,
        notifier: notifier,
        appURL:   strings.TrimRight(appURL, "/"),
        log:      log.With().Str("component", "approval").Logger(),
        now:      time.Now,
    }
}

// Decision is the outcome of Approve or Reject: the decided venue and the
// pending list read after the decision.
type Decision struct {
    Venue   model.PendingVenue   `json:"venue"`
    Pending []model.PendingVenue `json:"pending"`
}

// Pending lists the venues awaiting review.
func (w *Workflow) Pending(ctx context.Context) ([]model.PendingVenue, error) {
    list, err := w.store.ListPending(ctx)
    if err != nil {
        return nil, apperr.Collaborator("storage", "list pending venues", err)
    }
    return list, nil
}

// Approve moves a pending venue to approved and notifies its owner.
func (w *Workflow) Approve(ctx context.Context, id uint64) (Decision, error) {
    at := w.now().UTC()
    return w.decide(ctx, id, model.VenueStatusApproved, &at, nil)
}

// Reject moves a pending venue to rejected with reason, or
// DefaultRejectionReason when reason is blank.
func (w *Workflow) Reject(ctx context.Context, id uint64, reason string) (Decision, error) {
    reason = strings.TrimSpace(reason)
    if reason == "" {
        reason = DefaultRejectionReason
    }
    return w.decide(ctx, id, model.VenueStatusRejected, nil, &reason)
}

func (w *Workflow) decide(ctx context.Context, id uint64, to model.VenueStatus, approvedAt *time.Time, reason *string) (Decision, error) {
    log := w.log.With().Uint64("venue_id", id).Str("decision", string(to)).Logger()

    err := w.store.TransitionFromPending(ctx, id, to, approvedAt, reason)
    switch {
    case err == nil:
    case errors.Is(err, repository.ErrVenueNotFound), errors.Is(err, apperr.ErrStateGuard):
        metrics.Decisions.WithLabelValues(string(to), "refused").Inc()
        log.Info().Err(err).Msg("decision refused")
        return Decision{}, err
    default:
        metrics.Decisions.WithLabelValues(string(to), "failed").Inc()
        log.Error().Err(err).Msg("decision not stored")
        return Decision{}, apperr.Collaborator("storage", "update venue status", err)
    }
    metrics.Decisions.WithLabelValues(string(to), "ok").Inc()
    log.Info().Msg("venue decided")

    venue, err := w.store.GetWithOwner(ctx, id)
    if err != nil {
        // The decision is stored; only the notification loses its data.
        log.Warn().Err(err).Msg("reload decided venue")
        venue = model.PendingVenue{Venue: model.Venue{ID: id, Status: to, ApprovedAt: approvedAt, RejectionReason: reason}}
    } else {
        w.notifyOwner(ctx, log, venue)
    }

    pending, err := w.Pending(ctx)
    if err != nil {
        return Decision{Venue: venue}, err
    }
    return Decision{Venue: venue, Pending: pending}, nil
}

func (w *Workflow) notifyOwner(ctx context.Context, log zerolog.Logger, v model.PendingVenue) {
    if v.OwnerEmail == "" {
        log.Warn().Msg("venue owner has no email, skipping notification")
        return
    }
    msg := notify.Message{
        To: v.OwnerEmail,
        Data: map[string]string{
            "ownerName": firstName(v.OwnerName),
            "venueName": v.Name,
            "appURL":    w.appURL,
        },
    }
    switch v.Status {
    case model.VenueStatusApproved:
        msg.Subject = "Venue Approved!"
        msg.Template = notify.TemplateVenueApproved
    default:
        msg.Subject = "Venue Registration Update"
        msg.Template = notify.TemplateVenueRejected
        if v.RejectionReason != nil {
            msg.Data["reason"] = *v.RejectionReason
        }
    }
    if err := w.notifier.Notify(ctx, msg); err != nil {
        metrics.NotificationsDropped.WithLabelValues(msg.Template).Inc()
        log.Warn().Err(err).Str("template", msg.Template).Msg("owner notification not sent")
    }
}

func firstName(full string) string {
    if name := (model.VenueOwner{FullName: strings.TrimSpace(full)}).FirstName(); name != "" {
        return name
    }
    return "Venue Owner"
}
