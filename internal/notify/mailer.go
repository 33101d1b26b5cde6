// Package notify delivers composed routines through channels other than the
// chat deep link.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// ErrMailerDisabled is returned when no e-mail provider is configured.
var ErrMailerDisabled = errors.New("email delivery is not configured")

// Email is one outgoing message.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends an e-mail and returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, email Email) (string, error)
}

// ResendMailer sends e-mail through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer creates a mailer with the given API key and sender address.
func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send implements Mailer.
func (m *ResendMailer) Send(ctx context.Context, email Email) (string, error) {
	if email.To == "" {
		return "", errors.New("email recipient is required")
	}
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Text:    email.Text,
		Html:    email.HTML,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("ERROR: Resend send to %s failed: %v", email.To, err)
		return "", fmt.Errorf("resend send failed: %w", err)
	}
	log.Printf("INFO: Routine e-mail sent to %s (id %s)", email.To, sent.Id)
	return sent.Id, nil
}

type disabledMailer struct{}

// NewDisabledMailer returns a Mailer that always fails with ErrMailerDisabled.
func NewDisabledMailer() Mailer {
	return disabledMailer{}
}

func (disabledMailer) Send(context.Context, Email) (string, error) {
	return "", ErrMailerDisabled
}

// NewMailer picks the Resend mailer when an API key is configured.
func NewMailer(apiKey, from string) Mailer {
	if apiKey == "" {
		log.Println("INFO: No Resend API key configured, e-mail delivery disabled")
		return NewDisabledMailer()
	}
	return NewResendMailer(apiKey, from)
}
