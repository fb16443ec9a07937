// Package mailer sends notification email over SMTP with STARTTLS.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	apperrors "golang-ledger-validation-service/pkg/errors"
)

// Config holds the SMTP connection settings, normally sourced from the
// SMTP_* environment variables.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// Sender is the From address; empty falls back to Username.
	Sender string
}

// Validate checks that the settings required to deliver mail are present.
func (c *Config) Validate() error {
	if c.Host == "" {
		return apperrors.ConfigurationError(apperrors.CodeMissingConfig, "SMTP_HOST", nil)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return apperrors.ConfigurationError(apperrors.CodeInvalidConfig, "SMTP_PORT",
			fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Username == "" {
		return apperrors.ConfigurationError(apperrors.CodeMissingConfig, "SMTP_USER", nil)
	}
	return nil
}

// From returns the effective sender address.
func (c *Config) From() string {
	if c.Sender != "" {
		return c.Sender
	}
	return c.Username
}

// Message is one outbound plain-text email.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// sendFunc matches smtp.SendMail; swapped out in tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer delivers messages through a single SMTP account.
type Mailer struct {
	config Config
	send   sendFunc
}

// New returns a Mailer for the given configuration.
func New(config Config) (*Mailer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Mailer{config: config, send: smtp.SendMail}, nil
}

// Send delivers the message. smtp.SendMail negotiates STARTTLS whenever
// the server advertises it, matching the submission-port setup the SMTP_*
// variables describe.
func (m *Mailer) Send(msg Message) error {
	if strings.TrimSpace(msg.Recipient) == "" {
		return apperrors.New(apperrors.CategoryValidation, apperrors.CodeInvalidRule,
			"email recipient is required")
	}
	if strings.TrimSpace(msg.Body) == "" {
		return apperrors.New(apperrors.CategoryValidation, apperrors.CodeInvalidRule,
			"email body is required")
	}
	if msg.Subject == "" {
		msg.Subject = "LedgerLift Notification"
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)

	payload := encode(m.config.From(), msg)
	if err := m.send(addr, auth, m.config.From(), []string{msg.Recipient}, payload); err != nil {
		return apperrors.DeliveryError(msg.Recipient, err)
	}
	return nil
}

// encode renders the RFC 5322 message bytes.
func encode(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
