package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestInviteNotificationRoundTrip(t *testing.T) {
	original := &InviteNotification{
		InviteID:      "inv-1",
		BudgetID:      "b-1",
		BudgetName:    "Trip",
		InviterName:   "Alice",
		InvitedEmail:  "bob@example.com",
		CustomMessage: "come along",
		Timestamp:     time.Unix(1700000000, 0).UTC(),
	}

	body, err := original.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	decoded, err := InviteNotificationFromJSON(body)
	if err != nil {
		t.Fatalf("InviteNotificationFromJSON failed: %v", err)
	}
	if decoded.InviteID != original.InviteID ||
		decoded.BudgetID != original.BudgetID ||
		decoded.BudgetName != original.BudgetName ||
		decoded.InviterName != original.InviterName ||
		decoded.InvitedEmail != original.InvitedEmail ||
		decoded.CustomMessage != original.CustomMessage {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("timestamp mismatch: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
}

func TestInviteNotificationFromJSONRejectsGarbage(t *testing.T) {
	if _, err := InviteNotificationFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestMailerDisabledWithoutAPIKey(t *testing.T) {
	m := NewMailer(MailerConfig{})
	if m.Enabled() {
		t.Error("mailer without API key must be disabled")
	}
	// Callers must check Enabled first; sending anyway is an error.
	if err := m.SendInvitation(context.Background(), &InviteNotification{}); err == nil {
		t.Error("disabled SendInvitation should return an error")
	}
}

func TestMailerSendInvitation(t *testing.T) {
	var gotPath, gotKey string
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
		}
		gotBody = string(raw)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	m := NewMailer(MailerConfig{
		APIKey:    "secret-key",
		BaseURL:   srv.URL,
		FromEmail: "noreply@budgetsync.app",
		FromName:  "BudgetSync",
		ClientURL: "https://app.example.com",
	})

	n := &InviteNotification{
		InviteID:      "inv-1",
		BudgetName:    "Trip <script>",
		InviterName:   "Alice",
		InvitedEmail:  "bob@example.com",
		CustomMessage: "come along",
	}
	if err := m.SendInvitation(context.Background(), n); err != nil {
		t.Fatalf("SendInvitation failed: %v", err)
	}

	if gotPath != "/v3/smtp/email" {
		t.Errorf("path = %s", gotPath)
	}
	if gotKey != "secret-key" {
		t.Errorf("api-key header = %s", gotKey)
	}
	if !strings.Contains(gotBody, "bob@example.com") {
		t.Error("recipient missing from payload")
	}
	if strings.Contains(gotBody, "<script>") {
		t.Error("budget name must be HTML-escaped")
	}
}

func TestMailerPropagatesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid sender"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	m := NewMailer(MailerConfig{APIKey: "secret-key", BaseURL: srv.URL, FromEmail: "x@y.z"})
	if err := m.SendInvitation(context.Background(), &InviteNotification{InvitedEmail: "bob@example.com"}); err == nil {
		t.Error("expected error on API failure")
	}
}
