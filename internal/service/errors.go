package service

import "errors"

var (
	// ErrForbidden means the caller is authenticated but not allowed to
	// touch the record. Budget lookups never return it: membership is part
	// of the lookup there, so non-members get ErrNotVisible and cannot
	// probe which budget ids exist.
	ErrForbidden = errors.New("you are not a member of this budget")

	// ErrNotOwner is the detached-expense variant of ErrForbidden.
	ErrNotOwner = errors.New("you can only modify your own expenses")

	// ErrNotVisible conflates "does not exist" and "exists but you cannot
	// see it".
	ErrNotVisible = errors.New("not found")

	// ErrInvalidRequest covers malformed input: unknown categories,
	// self-invites, invalid status transitions requested by the client.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrDuplicateInvite is returned while a Pending invite for the same
	// budget and email is younger than the resend window.
	ErrDuplicateInvite = errors.New("an invitation for this email and budget is already pending; wait 24 hours before sending another")

	// ErrInviteResponded means the invite already reached a terminal
	// state and cannot transition again.
	ErrInviteResponded = errors.New("invite has already been responded to")
)
