package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// ErrNotConfigured is returned by SendInvite when SMTP settings are absent.
var ErrNotConfigured = errors.New("mail: smtp not configured")

// SMTPConfig carries the transport settings. Host empty means "not
// configured"; the service still issues invitations, operators hand the
// invite URL over out of band.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends invitation mail over plain SMTP with optional AUTH.
type SMTPMailer struct {
	cfg SMTPConfig
}

var _ Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Configured() bool {
	return m.cfg.Host != "" && m.cfg.From != ""
}

func (m *SMTPMailer) SendInvite(ctx context.Context, inv Invite) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(m.cfg.Host, fmt.Sprintf("%d", m.cfg.Port))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := renderInvite(m.cfg.From, inv)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{inv.To}, msg); err != nil {
		return fmt.Errorf("mail: sending invite to %s: %w", inv.To, err)
	}
	return nil
}

func renderInvite(from string, inv Invite) []byte {
	name := inv.DisplayName
	if name == "" {
		name = inv.To
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", inv.To)
	fmt.Fprintf(&b, "Subject: You have been invited to rackdoc\r\n")
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", name)
	if inv.InviterName != "" {
		fmt.Fprintf(&b, "%s has invited you to rackdoc.\r\n\r\n", inv.InviterName)
	} else {
		fmt.Fprintf(&b, "You have been invited to rackdoc.\r\n\r\n")
	}
	fmt.Fprintf(&b, "Accept your invitation here:\r\n\r\n  %s\r\n\r\n", inv.AcceptURL)
	fmt.Fprintf(&b, "The link expires on %s.\r\n", inv.ExpiresAt.UTC().Format(time.RFC1123))
	return []byte(b.String())
}
