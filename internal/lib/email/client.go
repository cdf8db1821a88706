// Package email renders the embedded HTML templates and sends them with Resend.
package email

import (
	"fmt"

	"github.com/deppfellow/go-calendar/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

const defaultFrom = "Calendar <onboarding@resend.dev>"

// Sender is the part of the Resend emails service the client uses.
type Sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Client struct {
	sender Sender
	from   string
	logger *zerolog.Logger
}

// NewClient builds a Resend-backed client. Without an API key the client
// only logs the emails it would have sent.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	var sender Sender
	if cfg.Integration.ResendAPIKey != "" {
		sender = resend.NewClient(cfg.Integration.ResendAPIKey).Emails
	}

	from := cfg.Integration.EmailFrom
	if from == "" {
		from = defaultFrom
	}

	return NewClientWithSender(sender, from, logger)
}

func NewClientWithSender(sender Sender, from string, logger *zerolog.Logger) *Client {
	return &Client{sender: sender, from: from, logger: logger}
}

// SendEmail renders templateName with data and sends it to one recipient.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	body, err := Render(templateName, data)
	if err != nil {
		return err
	}

	if c.sender == nil {
		c.logger.Info().
			Str("to", to).
			Str("subject", subject).
			Str("template", string(templateName)).
			Msg("email delivery disabled, skipping send")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}

	if _, err := c.sender.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
