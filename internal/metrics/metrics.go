// Package metrics holds the Prometheus collectors of the service.  They are
// registered on the default registry and served on /metrics.
package metrics

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    // HTTPRequests counts handled requests by route and status class.
    HTTPRequests = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "venue",
            Name:      "http_requests_total",
            Help:      "The total number of handled HTTP requests",
        },
        []string{"method", "route", "status"},
    )

    // HTTPDuration observes request latency by route.
    HTTPDuration = promauto.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "venue",
            Name:      "http_request_duration_seconds",
            Help:      "Latency of HTTP requests",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"method", "route"},
    )

    // Checkouts counts submit outcomes: confirmed, invalid, declined,
    // timeout, failed, blocked, in_flight.
    Checkouts = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "venue",
            Name:      "checkouts_total",
            Help:      "Checkout submissions by outcome",
        },
        []string{"outcome"},
    )

    // Referrals counts referral applications by result.
    Referrals = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "venue",
            Name:      "referrals_total",
            Help:      "Referral code applications by result",
        },
        []string{"result"},
    )

    // BookedAmount sums charged totals in whole currency units.
    BookedAmount = promauto.NewCounter(
        prometheus.CounterOpts{
            Namespace: "venue",
            Name:      "booked_amount_total",
            Help:      "Sum of confirmed booking totals",
        },
    )

    // Onboardings counts onboarding saga outcomes.
    Onboardings = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "venue",
            Name:      "onboardings_total",
            Help:      "Venue onboarding attempts by outcome",
        },
        []string{"outcome"},
    )

    // Compensations counts saga compensation steps and whether they failed.
    Compensations = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "venue",
            Name:      "onboarding_compensations_total",
            Help:      "Onboarding compensation steps by step and result",
        },
        []string{"step", "result"},
    )

    // Decisions counts admin decisions by decision and result.
    Decisions = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "venue",
            Name:      "venue_decisions_total",
            Help:      "Venue approval decisions by decision and result",
        },
        []string{"decision", "result"},
    )

    // NotificationsDropped counts best-effort notifications that failed.
    NotificationsDropped = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "venue",
            Name:      "notifications_dropped_total",
            Help:      "Best-effort notifications that could not be handed off",
        },
        []string{"template"},
    )

    // MessagesProcessed counts consumed broker messages by queue and result.
    MessagesProcessed = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "messages",
            Name:      "processed_total",
            Help:      "The total number of consumed messages",
        },
        []string{"queue", "result"},
    )
)
