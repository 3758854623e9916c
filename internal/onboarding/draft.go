package onboarding

import (
    "context"
    "encoding/json"
    "errors"

    "github.com/iliyamo/venue-booking/internal/apperr"
    "github.com/iliyamo/venue-booking/internal/session"
)

// MaxDraftBytes caps a stored registration draft.
const MaxDraftBytes = 16 << 10

// SaveDraft stores the scratch copy of the registration form for sid.
// The draft must be a JSON object; a password field is never kept.
func (w *Workflow) SaveDraft(ctx context.Context, sid string, raw json.RawMessage) error {
    v := &apperr.ValidationError{}
    if len(raw) > MaxDraftBytes {
        v.Add("draft", "Draft is too large")
        return v
    }
    var fields map[string]json.RawMessage
    if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
        v.Add("draft", "Draft must be a JSON object")
        return v
    }
    delete(fields, "password")
    clean, err := json.Marshal(fields)
    if err != nil {
        return err
    }
    return apperr.Collaborator("session", "save draft", w.drafts.SaveDraft(ctx, sid, clean))
}

// LoadDraft returns the stored draft, or an empty object when there is
// none.
func (w *Workflow) LoadDraft(ctx context.Context, sid string) (json.RawMessage, error) {
    raw, err := w.drafts.LoadDraft(ctx, sid)
    if errors.Is(err, session.ErrNotFound) {
        return json.RawMessage(`{}`), nil
    }
    if err != nil {
        return nil, apperr.Collaborator("session", "load draft", err)
    }
    return raw, nil
}
