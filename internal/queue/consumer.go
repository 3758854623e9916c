package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog"

    "github.com/iliyamo/venue-booking/internal/metrics"
    "github.com/iliyamo/venue-booking/internal/notify"
)

// Handler processes one message body.  A returned error rejects the
// message without requeueing it.
type Handler func(ctx context.Context, body []byte) error

// Consumer reads one durable queue and keeps reconnecting until its
// context is cancelled.
type Consumer struct {
    url      string
    queue    string
    handle   Handler
    prefetch int
    log      zerolog.Logger
}

func NewConsumer(url, queue string, h Handler, log zerolog.Logger) *Consumer {
    return &Consumer{
        url:      url,
        queue:    queue,
        handle:   h,
        prefetch: 50,
        log:      log.With().Str("queue", queue).Logger(),
    }
}

// Run connects to the broker and consumes until ctx is done.  Dial and
// channel failures are retried with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        if ctx.Err() != nil {
            return nil
        }
        conn, err := amqp.Dial(c.url)
        if err != nil {
            c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("dial broker failed")
            if !sleep(ctx, backoff) {
                return nil
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return nil
        }
        c.log.Warn().Err(err).Msg("consume loop ended, reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return nil
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(c.prefetch, 0, false); err != nil {
        c.log.Warn().Err(err).Msg("set QoS failed")
    }
    if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }
    c.log.Info().Msg("consuming")

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            c.deliver(ctx, d)
        }
    }
}

func (c *Consumer) deliver(ctx context.Context, d amqp.Delivery) {
    if err := c.handle(ctx, d.Body); err != nil {
        metrics.MessagesProcessed.WithLabelValues(c.queue, "rejected").Inc()
        c.log.Error().Err(err).Msg("handle message failed")
        _ = d.Nack(false, false)
        return
    }
    metrics.MessagesProcessed.WithLabelValues(c.queue, "ok").Inc()
    _ = d.Ack(false)
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

// EmailHandler renders queued notifications and sends them through m.
func EmailHandler(m notify.Mailer) Handler {
    return func(ctx context.Context, body []byte) error {
        var msg notify.Message
        if err := json.Unmarshal(body, &msg); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        return notify.Deliver(ctx, m, msg)
    }
}

// BookingLogHandler writes one structured log line per confirmed booking.
func BookingLogHandler(log zerolog.Logger) Handler {
    return func(_ context.Context, body []byte) error {
        var ev BookingConfirmedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        if ev.BookingID == 0 {
            return errors.New("event has no booking id")
        }
        e := log.Info().
            Uint64("booking_id", ev.BookingID).
            Uint64("venue_id", ev.VenueID).
            Str("venue", ev.VenueName).
            Int64("total", ev.TotalAmount).
            Int("discount_pct", ev.DiscountPct).
            Int64("loyalty_points", ev.LoyaltyPoints).
            Str("perks", strings.Join(ev.Perks, ",")).
            Str("payment_ref", ev.PaymentRef).
            Str("confirmed_at", ev.ConfirmedAt)
        if ev.UserID != nil {
            e = e.Uint64("user_id", *ev.UserID)
        }
        e.Msg("booking confirmed")
        return nil
    }
}
