package notify

import (
    "context"
    "fmt"
    "mime"
    "net"
    "net/smtp"
    "strings"

    "github.com/rs/zerolog"
)

// Mailer delivers a rendered HTML email.
type Mailer interface {
    Send(ctx context.Context, to, subject, html string) error
}

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
    Host     string
    Port     string
    Username string
    Password string
    From     string
}

// SMTPMailer sends mail through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
    cfg  SMTPConfig
    send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
    return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    var auth smtp.Auth
    if m.cfg.Username != "" {
        auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
    }
    addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
    if err := m.send(addr, auth, m.cfg.From, []string{to}, buildMIME(m.cfg.From, to, subject, html)); err != nil {
        return fmt.Errorf("smtp send to %s: %w", to, err)
    }
    return nil
}

func buildMIME(from, to, subject, html string) []byte {
    var b strings.Builder
    b.WriteString("From: " + from + "\r\n")
    b.WriteString("To: " + to + "\r\n")
    // Q-encoding turns CR and LF into =0D=0A, so a subject can never start
    // a new header line.
    b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
    b.WriteString("MIME-Version: 1.0\r\n")
    b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
    b.WriteString(html)
    return []byte(b.String())
}

// LogMailer writes emails to the log instead of sending them.  It is used
// when no SMTP host is configured.
type LogMailer struct {
    Log zerolog.Logger
}

func (m LogMailer) Send(_ context.Context, to, subject, html string) error {
    m.Log.Info().Str("to", to).Str("subject", subject).Int("bytes", len(html)).Msg("email (not sent, smtp disabled)")
    return nil
}

// NewMailer picks SMTP when a host is configured and logging otherwise.
func NewMailer(cfg SMTPConfig, log zerolog.Logger) Mailer {
    if cfg.Host == "" {
        return LogMailer{Log: log}
    }
    return NewSMTPMailer(cfg)
}

// Deliver renders msg and sends it through m.
func Deliver(ctx context.Context, m Mailer, msg Message) error {
    if msg.To == "" {
        return fmt.Errorf("message %q has no recipient", msg.Template)
    }
    html, err := Render(msg)
    if err != nil {
        return err
    }
    return m.Send(ctx, msg.To, msg.Subject, html)
}
