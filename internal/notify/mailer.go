package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

// MailerConfig configures the transactional email API client used by the
// notify-worker. With an empty APIKey the mailer is disabled and delivery
// becomes a logged no-op.
type MailerConfig struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
	ClientURL string
	Timeout   time.Duration
}

// Mailer delivers invitation emails through a Brevo-compatible HTTP API.
type Mailer struct {
	cfg        MailerConfig
	httpClient *http.Client
}

// NewMailer creates a mailer. Defaults: Brevo API endpoint, 30s timeout.
func NewMailer(cfg MailerConfig) *Mailer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.brevo.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ClientURL == "" {
		cfg.ClientURL = "http://localhost:5173"
	}
	return &Mailer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Enabled reports whether the mailer is configured to actually send.
func (m *Mailer) Enabled() bool {
	return m.cfg.APIKey != ""
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendEmailRequest struct {
	Sender      emailAddress   `json:"sender"`
	To          []emailAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

// SendInvitation renders and sends the invitation email for a notification.
func (m *Mailer) SendInvitation(ctx context.Context, n *InviteNotification) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer not configured")
	}

	payload := sendEmailRequest{
		Sender:      emailAddress{Email: m.cfg.FromEmail, Name: m.cfg.FromName},
		To:          []emailAddress{{Email: n.InvitedEmail}},
		Subject:     fmt.Sprintf("You've been invited to collaborate on %q", n.BudgetName),
		HTMLContent: m.renderInvitation(n),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+"/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", m.cfg.APIKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email API returned %d: %s", resp.StatusCode, string(detail))
	}

	return nil
}

func (m *Mailer) renderInvitation(n *InviteNotification) string {
	var b strings.Builder
	b.WriteString("<p>Hello!</p>")
	fmt.Fprintf(&b, "<p><strong>%s</strong> has invited you to collaborate on the budget <strong>%q</strong>.</p>",
		html.EscapeString(n.InviterName), html.EscapeString(n.BudgetName))
	if n.CustomMessage != "" {
		fmt.Fprintf(&b, "<blockquote>%s</blockquote>", html.EscapeString(n.CustomMessage))
	}
	fmt.Fprintf(&b, `<p>Sign in (or create an account) to see the shared budget: <a href="%s/login">%s/login</a></p>`,
		m.cfg.ClientURL, m.cfg.ClientURL)
	b.WriteString("<p>If you didn't expect this invitation, you can safely ignore this email.</p>")
	return b.String()
}
