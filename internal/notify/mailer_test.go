package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPMailerRequiresAPIKey(t *testing.T) {
	if _, err := NewHTTPMailer("", "noreply@example.com", "http://localhost"); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestSendOrderConfirmationPostsToEmailsEndpoint(t *testing.T) {
	var got sendRequest
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m, err := NewHTTPMailer("key", "orders@example.com", srv.URL)
	if err != nil {
		t.Fatalf("NewHTTPMailer: %v", err)
	}

	if err := m.SendOrderConfirmation(context.Background(), "buyer@example.com", "EE-ABCDEF1234", 88); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if auth != "Bearer key" {
		t.Fatalf("unexpected auth header: %q", auth)
	}
	if got.From != "orders@example.com" {
		t.Fatalf("unexpected from: %q", got.From)
	}
	if len(got.To) != 1 || got.To[0] != "buyer@example.com" {
		t.Fatalf("unexpected recipients: %v", got.To)
	}
	if !strings.Contains(got.Subject, "EE-ABCDEF1234") {
		t.Fatalf("order number missing from subject: %q", got.Subject)
	}
	if !strings.Contains(got.HTML, "88.00") {
		t.Fatalf("total missing from body: %q", got.HTML)
	}
}

func TestSendSurfacesAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid recipient", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	m, err := NewHTTPMailer("key", "orders@example.com", srv.URL)
	if err != nil {
		t.Fatalf("NewHTTPMailer: %v", err)
	}

	err = m.SendPasswordReset(context.Background(), "buyer@example.com", "token")
	if err == nil || !strings.Contains(err.Error(), "invalid recipient") {
		t.Fatalf("expected API failure to surface, got %v", err)
	}
}
