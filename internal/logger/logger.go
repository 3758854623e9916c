// Package logger configures the process-wide zerolog logger.
package logger

import (
    "context"
    "io"
    "os"
    "strings"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// Config selects level and output format.  Format is "json" (default) or
// "console" for human-readable development output.
type Config struct {
    Level  string
    Format string
    Output io.Writer
}

// New builds a logger from cfg.  Unknown levels fall back to info.
func New(cfg Config) zerolog.Logger {
    out := cfg.Output
    if out == nil {
        out = os.Stdout
    }
    level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
    if err != nil || cfg.Level == "" {
        level = zerolog.InfoLevel
    }
    if strings.EqualFold(cfg.Format, "console") || strings.EqualFold(cfg.Format, "text") {
        out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
    }
    return zerolog.New(out).Level(level).With().Timestamp().Str("service", "venue-booking").Logger()
}

// Init builds the logger and installs it as the global and default
// context logger.
func Init(cfg Config) zerolog.Logger {
    l := New(cfg)
    log.Logger = l
    zerolog.DefaultContextLogger = &l
    return l
}

// From returns the logger carried by ctx, or the global logger.
func From(ctx context.Context) *zerolog.Logger {
    if ctx == nil {
        return &log.Logger
    }
    return zerolog.Ctx(ctx)
}
