// Package notify sends order confirmations through a transactional-email
// endpoint (EmailJS-compatible JSON API). Acceptance or rejection of
// this call is the only user-visible outcome of checkout.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Sender interface {
	Send(ctx context.Context, params map[string]string) error
}

type EmailClient struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	HTTP       *http.Client
}

func NewEmailClient(endpoint, serviceID, templateID, publicKey string) *EmailClient {
	return &EmailClient{
		Endpoint:   endpoint,
		ServiceID:  serviceID,
		TemplateID: templateID,
		PublicKey:  publicKey,
		HTTP:       &http.Client{Timeout: 15 * time.Second},
	}
}

type payload struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send posts the templated payload. A non-2xx response surfaces the
// provider's body verbatim so the shopper sees the real rejection text.
func (c *EmailClient) Send(ctx context.Context, params map[string]string) error {
	body, err := json.Marshal(payload{
		ServiceID:      c.ServiceID,
		TemplateID:     c.TemplateID,
		UserID:         c.PublicKey,
		TemplateParams: params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("notification rejected: %s", msg)
	}
	return nil
}
