// internal/adapters/out/mail/sendgrid_client.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrMailNotConfigured = errors.New("mail: sendgrid is not configured")

const senderName = "QuickCheckout Till"

// SendGridClient implements the checkout usecase's ReceiptMailer port.
// Receipt bodies are preformatted plain text with aligned columns; the
// HTML part wraps the same body in a monospace block so the columns
// survive rich-text clients.
type SendGridClient struct {
	client *sendgrid.Client
}

func NewSendGridClient(apiKey string) *SendGridClient {
	if apiKey == "" {
		return &SendGridClient{}
	}
	return &SendGridClient{client: sendgrid.NewSendClient(apiKey)}
}

func (c *SendGridClient) Send(ctx context.Context, from, to, subject, body string) error {
	if c == nil || c.client == nil {
		return ErrMailNotConfigured
	}
	if from == "" || to == "" {
		return fmt.Errorf("mail: missing from/to address")
	}

	msg := sgmail.NewSingleEmail(
		sgmail.NewEmail(senderName, from),
		subject,
		sgmail.NewEmail("", to),
		body,
		`<pre style="font-family:monospace">`+html.EscapeString(body)+`</pre>`,
	)

	resp, err := c.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("mail: sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail: sendgrid rejected message: status=%d body=%s", resp.StatusCode, resp.Body)
	}

	log.Printf("[mail] receipt copy sent to=%s status=%d", to, resp.StatusCode)
	return nil
}
