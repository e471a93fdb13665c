package models

import "fmt"

// InviteStatus is the lifecycle state of an invite. Pending is the only
// non-terminal state: Accepted and Declined admit no further transitions.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "Pending"
	InviteStatusAccepted InviteStatus = "Accepted"
	InviteStatusDeclined InviteStatus = "Declined"
)

// ParseInviteStatus validates a raw status string.
func ParseInviteStatus(s string) (InviteStatus, error) {
	switch st := InviteStatus(s); st {
	case InviteStatusPending, InviteStatusAccepted, InviteStatusDeclined:
		return st, nil
	}
	return "", fmt.Errorf("invalid invite status %q", s)
}

// Invite represents an offer of budget membership sent to an email address.
// The invited party does not need an account at the time the invite is
// created; matching happens by email once they respond.
type Invite struct {
	// ID is the unique identifier for the invite (UUID format).
	ID string `json:"id"`

	// BudgetID is the budget the invite grants membership to.
	BudgetID string `json:"budgetId"`

	// InvitedEmail is the address the invitation was sent to.
	InvitedEmail string `json:"invitedEmail"`

	// CustomMessage is an optional note from the inviter, included in the
	// notification email.
	CustomMessage string `json:"customMessage"`

	// Status is Pending until the invitee accepts or declines.
	Status InviteStatus `json:"status"`

	// CreatedAt is the Unix timestamp when the invite was created. A new
	// invite for the same (budget, email) pair is rejected while a Pending
	// one younger than 24 hours exists.
	CreatedAt int64 `json:"createdAt"`
}
