// Package notify carries invitation notifications out of the request path.
//
// Invite creation publishes a message to a durable queue and reports only
// whether the publish succeeded; actual email delivery happens in the
// notify-worker. Delivery is best-effort by design: a failed publish or a
// bounced email never rolls back the invite.
package notify

import (
	"context"
	"encoding/json"
	"time"
)

// InviteNotification is the message published for every created invite.
// It carries everything the worker needs to render the email, so the
// worker does not read the database.
type InviteNotification struct {
	InviteID      string    `json:"inviteId"`
	BudgetID      string    `json:"budgetId"`
	BudgetName    string    `json:"budgetName"`
	InviterName   string    `json:"inviterName"`
	InvitedEmail  string    `json:"invitedEmail"`
	CustomMessage string    `json:"customMessage"`
	Timestamp     time.Time `json:"timestamp"`
}

// ToJSON converts the notification to JSON bytes.
func (n *InviteNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// InviteNotificationFromJSON parses a notification from JSON bytes.
func InviteNotificationFromJSON(data []byte) (*InviteNotification, error) {
	var n InviteNotification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Notifier publishes invite notifications.
type Notifier interface {
	PublishInvite(ctx context.Context, n *InviteNotification) error
	Close() error
}

// NopNotifier silently drops notifications. Used when AMQP is not
// configured (development, tests).
type NopNotifier struct{}

func (NopNotifier) PublishInvite(context.Context, *InviteNotification) error { return nil }
func (NopNotifier) Close() error                                             { return nil }
