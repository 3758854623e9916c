// Package onboarding registers a venue owner together with their first
// venue.  The three writes (identity, owner profile, venue) are not in
// one transaction; a failed step undoes the earlier ones in reverse order.
package onboarding

import (
    "context"
    "encoding/json"
    "errors"
    "time"

    "github.com/rs/zerolog"

    "github.com/iliyamo/venue-booking/internal/apperr"
    "github.com/iliyamo/venue-booking/internal/metrics"
    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/notify"
    "github.com/iliyamo/venue-booking/internal/repository"
)

// State is the position of a registration in the saga.
type State string

const (
    StateFormEditing       State = "FormEditing"
    StateSubmittingAccount State = "SubmittingAccount"
    StateSubmittingProfile State = "SubmittingProfile"
    StateSubmittingVenue   State = "SubmittingVenue"
    StatePendingApproval   State = "PendingApproval"
)

// NextPending is where a freshly registered owner is sent.
const NextPending = "/v1/owner/status"

// Identities creates and removes OWNER auth identities.
type Identities interface {
    CreateIdentity(ctx context.Context, email, password string) (uint64, error)
    DeleteIdentity(ctx context.Context, id uint64) error
}

// Owners stores owner profiles.
type Owners interface {
    CreateOwner(ctx context.Context, o *model.VenueOwner) error
    DeleteOwner(ctx context.Context, userID uint64) error
}

// Venues stores venues.
type Venues interface {
    CreateVenue(ctx context.Context, v *model.Venue) error
}

// Drafts keeps the per-session scratch copy of the form.
type Drafts interface {
    SaveDraft(ctx context.Context, sid string, draft json.RawMessage) error
    LoadDraft(ctx context.Context, sid string) (json.RawMessage, error)
    ClearDraft(ctx context.Context, sid string) error
}

// Deps are the collaborators of a Workflow.
type Deps struct {
    Identities          Identities
    Owners              Owners
    Venues              Venues
    Drafts              Drafts
    Notifier            notify.Notifier
    AdminEmail          string
    CompensationTimeout time.Duration
    Log                 zerolog.Logger
}

// Workflow runs owner registrations.
type Workflow struct {
    identities Identities
    owners     Owners
    venues     Venues
    drafts     Drafts
    notifier   notify.Notifier
    adminEmail string
    undoWithin time.Duration
    log        zerolog.Logger
}

func NewWorkflow(d Deps) *Workflow {
    if d.Notifier == nil {
        d.Notifier = notify.Discard
    }
    if d.CompensationTimeout <= 0 {
        d.CompensationTimeout = 10 * time.Second
    }
    return &Workflow{
        identities: d.Identities,
        owners:     d.Owners,
        venues:     d.Venues,
        drafts:     d.Drafts,
        notifier:   d.Notifier,
        adminEmail: d.AdminEmail,
        undoWithin: d.CompensationTimeout,
        log:        d.Log.With().Str("component", "onboarding").Logger(),
    }
}

// Result is the outcome of a successful registration.
type Result struct {
    State State             `json:"state"`
    Next  string            `json:"next"`
    Owner *model.VenueOwner `json:"owner"`
    Venue *model.Venue      `json:"venue"`
}

// Register runs the saga.  On failure it returns the state that failed
// and an error; every write made before the failure has been undone.  A
// duplicate email returns repository.ErrEmailExists and creates nothing.
func (w *Workflow) Register(ctx context.Context, sid string, reg Registration) (Result, error) {
    reg.Normalize()
    if err := reg.Validate(); err != nil {
        metrics.Onboardings.WithLabelValues("invalid").Inc()
        return Result{State: StateFormEditing}, err
    }

    log := w.log.With().Str("email", reg.Email).Logger()
    sg := &saga{log: log, timeout: w.undoWithin}

    log.Info().Str("state", string(StateSubmittingAccount)).Msg("creating identity")
    userID, err := w.identities.CreateIdentity(ctx, reg.Email, reg.Password)
    if err != nil {
        metrics.Onboardings.WithLabelValues("account_failed").Inc()
        if errors.Is(err, repository.ErrEmailExists) {
            return Result{State: StateFormEditing}, err
        }
        return Result{State: StateSubmittingAccount}, apperr.Collaborator("auth", "create identity", err)
    }
    sg.completed("identity", func(ctx context.Context) error { return w.identities.DeleteIdentity(ctx, userID) })

    log = log.With().Uint64("user_id", userID).Logger()
    log.Info().Str("state", string(StateSubmittingProfile)).Msg("creating owner profile")
    owner := reg.owner(userID)
    if err := w.owners.CreateOwner(ctx, owner); err != nil {
        return w.fail(ctx, sg, StateSubmittingProfile, apperr.Collaborator("storage", "create owner profile", err))
    }
    sg.completed("profile", func(ctx context.Context) error { return w.owners.DeleteOwner(ctx, userID) })

    log.Info().Str("state", string(StateSubmittingVenue)).Msg("creating venue")
    venue := reg.venue(userID)
    if err := w.venues.CreateVenue(ctx, venue); err != nil {
        return w.fail(ctx, sg, StateSubmittingVenue, apperr.Collaborator("storage", "create venue", err))
    }

    if w.drafts != nil {
        if err := w.drafts.ClearDraft(ctx, sid); err != nil {
            log.Warn().Err(err).Msg("clear registration draft")
        }
    }
    metrics.Onboardings.WithLabelValues("pending").Inc()
    log.Info().Uint64("venue_id", venue.ID).Msg("venue submitted for approval")

    w.notifyAdmin(ctx, log, owner, venue)

    return Result{State: StatePendingApproval, Next: NextPending, Owner: owner, Venue: venue}, nil
}

func (w *Workflow) fail(ctx context.Context, sg *saga, at State, cause error) (Result, error) {
    metrics.Onboardings.WithLabelValues("rolled_back").Inc()
    sg.log.Warn().Err(cause).Str("state", string(at)).Msg("registration step failed, rolling back")
    if err := sg.rollback(ctx); err != nil {
        return Result{State: at}, errors.Join(cause, err)
    }
    return Result{State: at}, cause
}

func (w *Workflow) notifyAdmin(ctx context.Context, log zerolog.Logger, owner *model.VenueOwner, venue *model.Venue) {
    if w.adminEmail == "" {
        return
    }
    msg := notify.Message{
        To:       w.adminEmail,
        Subject:  "New Venue Submission Pending Approval",
        Template: notify.TemplateAdminVenueSubmitted,
        Data: map[string]string{
            "venueName":  venue.Name,
            "ownerName":  owner.FullName,
            "ownerEmail": owner.Email,
        },
    }
    if err := w.notifier.Notify(ctx, msg); err != nil {
        metrics.NotificationsDropped.WithLabelValues(msg.Template).Inc()
        log.Warn().Err(err).Msg("admin notification not sent")
    }
}

// Destinations returned by Destination.
const (
    DestRegister  = "register"
    DestPending   = "pending"
    DestDashboard = "dashboard"
)

// Destination picks the owner console page for an owner with the given
// venues: registration when there is nothing live or waiting, the
// pending page while any venue awaits review, the dashboard otherwise.
func Destination(venues []*model.Venue) string {
    if len(venues) == 0 {
        return DestRegister
    }
    rejected := 0
    for _, v := range venues {
        switch v.Status {
        case model.VenueStatusPending:
            return DestPending
        case model.VenueStatusRejected:
            rejected++
        }
    }
    if rejected == len(venues) {
        return DestRegister
    }
    return DestDashboard
}
