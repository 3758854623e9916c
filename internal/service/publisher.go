// Package service holds the RabbitMQ publisher used by the workflows.
// Every publish dials the broker, declares the durable queue and sends a
// persistent message; callers treat failures as best effort.
package service

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog"

    "github.com/iliyamo/venue-booking/internal/notify"
    "github.com/iliyamo/venue-booking/internal/queue"
)

// Publisher sends JSON messages to named durable queues.
type Publisher struct {
    url     string
    timeout time.Duration
    log     zerolog.Logger
}

// NewPublisher returns a publisher for the broker at url.
func NewPublisher(url string, log zerolog.Logger) *Publisher {
    return &Publisher{url: url, timeout: 5 * time.Second, log: log.With().Str("component", "publisher").Logger()}
}

// Publish marshals v and sends it to queueName through the default
// exchange.
func (p *Publisher) Publish(ctx context.Context, queueName string, v any) error {
    body, err := json.Marshal(v)
    if err != nil {
        return fmt.Errorf("marshal %s message: %w", queueName, err)
    }

    ctx, cancel := context.WithTimeout(ctx, p.timeout)
    defer cancel()

    conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.timeout)})
    if err != nil {
        p.log.Warn().Err(err).Str("queue", queueName).Msg("dial failed")
        return fmt.Errorf("dial broker: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare %s: %w", queueName, err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
        p.log.Warn().Err(err).Str("queue", queueName).Msg("publish failed")
        return fmt.Errorf("publish %s: %w", queueName, err)
    }
    return nil
}

// PublishBookingConfirmed sends ev to the booking.confirmed queue.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
    return p.Publish(ctx, queue.BookingQueue, ev)
}

// Notify queues msg for the email consumer.
func (p *Publisher) Notify(ctx context.Context, msg notify.Message) error {
    return p.Publish(ctx, queue.NotificationQueue, msg)
}
