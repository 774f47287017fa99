// Package email sends transactional mail through Resend.
package email

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/resend/resend-go/v2"
)

// Defaults used when the environment leaves them unset.
const (
	DefaultFrom    = "Arty Affairs <notifications@artyaffairs.com>"
	DefaultEnquiry = "hello@artyaffairs.com"
)

var (
	// ErrNotConfigured is returned when no API key is set; nothing is sent.
	ErrNotConfigured = errors.New("email API key not configured")
	// ErrNoRecipient is returned when a message has no destination.
	ErrNoRecipient = errors.New("email destination not configured")
)

// Message is one outgoing email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

// Mailer wraps a Resend client with the storefront's sender defaults.
type Mailer struct {
	APIKey    string
	From      string
	EnquiryTo string
	client    *resend.Client
}

// NewMailer builds a Mailer. Empty from/enquiryTo fall back to the defaults.
func NewMailer(apiKey, from, enquiryTo string) *Mailer {
	if from == "" {
		from = DefaultFrom
	}
	if enquiryTo == "" {
		enquiryTo = DefaultEnquiry
	}
	return &Mailer{
		APIKey:    apiKey,
		From:      from,
		EnquiryTo: enquiryTo,
		client:    resend.NewCustomClient(&http.Client{Timeout: 10 * time.Second}, apiKey),
	}
}

// Send delivers msg and returns the provider's message id.
func (m *Mailer) Send(ctx context.Context, msg Message) (string, error) {
	if m.APIKey == "" {
		log.Printf("email: API key missing; skipping %q", msg.Subject)
		return "", ErrNotConfigured
	}
	if len(msg.To) == 0 || msg.To[0] == "" {
		log.Printf("email: destination missing; skipping %q", msg.Subject)
		return "", ErrNoRecipient
	}

	from := msg.From
	if from == "" {
		from = m.From
	}
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return "", fmt.Errorf("email provider rejected %q: %w", msg.Subject, err)
	}
	log.Printf("email: sent %q (id %s)", msg.Subject, sent.Id)
	return sent.Id, nil
}
