package onboarding

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/rs/zerolog"

    "github.com/iliyamo/venue-booking/internal/metrics"
)

type compensation struct {
    step string
    undo func(ctx context.Context) error
}

// saga records the undo action of every completed step.  rollback runs
// them newest first and keeps going when one fails.
type saga struct {
    log     zerolog.Logger
    timeout time.Duration
    done    []compensation
}

func (s *saga) completed(step string, undo func(ctx context.Context) error) {
    s.done = append(s.done, compensation{step: step, undo: undo})
}

// rollback undoes the completed steps on a context that outlives the
// request, bounded by the saga timeout.
func (s *saga) rollback(ctx context.Context) error {
    cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
    defer cancel()

    var errs []error
    for i := len(s.done) - 1; i >= 0; i-- {
        c := s.done[i]
        if err := c.undo(cctx); err != nil {
            metrics.Compensations.WithLabelValues(c.step, "failed").Inc()
            s.log.Error().Err(err).Str("step", c.step).Msg("compensation failed")
            errs = append(errs, fmt.Errorf("undo %s: %w", c.step, err))
            continue
        }
        metrics.Compensations.WithLabelValues(c.step, "ok").Inc()
        s.log.Info().Str("step", c.step).Msg("compensated")
    }
    s.done = nil
    return errors.Join(errs...)
}
