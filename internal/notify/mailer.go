// Package notify sends transactional email through an HTTP mail API. Order
// confirmation mail is best effort: callers fire it in a goroutine and a
// failure is logged, never surfaced to the request that triggered it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Mailer is the slice of the mail API used by handlers. Checkout and password
// reset depend on this interface so tests can substitute a fake.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, toEmail, orderNumber string, total float64) error
	SendPasswordReset(ctx context.Context, toEmail, resetToken string) error
}

type HTTPMailer struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

func NewHTTPMailer(apiKey, from, baseURL string) (*HTTPMailer, error) {
	if apiKey == "" {
		return nil, errors.New("mail API key not set")
	}

	return &HTTPMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *HTTPMailer) SendOrderConfirmation(ctx context.Context, toEmail, orderNumber string, total float64) error {
	return m.send(ctx, sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: "Your Essence Express order " + orderNumber,
		HTML: fmt.Sprintf(`
			<p>Thank you for your order!</p>
			<p>Order number: <strong>%s</strong></p>
			<p>Total: %.2f</p>
		`, orderNumber, total),
	})
}

func (m *HTTPMailer) SendPasswordReset(ctx context.Context, toEmail, resetToken string) error {
	return m.send(ctx, sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: "Reset your Essence Express password",
		HTML: `
			<p>A password reset was requested for your account.</p>
			<p>Reset code: <strong>` + resetToken + `</strong></p>
			<p>If you did not request this, you can ignore this email.</p>
		`,
	})
}

func (m *HTTPMailer) send(ctx context.Context, body sendRequest) error {
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.baseURL+"/emails",
		bytes.NewBuffer(b),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		return errors.New("mail send failed: " + buf.String())
	}

	return nil
}

// FireAndForget runs fn on its own goroutine with a fresh timeout and logs
// any failure. The caller's request never waits on, or fails from, the send.
func FireAndForget(tag string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := fn(ctx); err != nil {
			log.Printf("[%s] [ERROR] notification failed: %v", tag, err)
		}
	}()
}
