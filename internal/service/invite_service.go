package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/budgetsync/internal/models"
	"github.com/mmynk/budgetsync/internal/notify"
	"github.com/mmynk/budgetsync/internal/storage"
)

// inviteResendWindow is how long a pending invite blocks a fresh invite to
// the same email for the same budget.
const inviteResendWindow = 24 * time.Hour

// InviteService manages budget invitations.
type InviteService struct {
	store    storage.Store
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewInviteService creates a new invite service.
func NewInviteService(store storage.Store, notifier notify.Notifier, logger *slog.Logger) *InviteService {
	return &InviteService{store: store, notifier: notifier, logger: logger}
}

// CreateInvite invites an email address to join a budget the user is a
// member of. The returned bool reports whether a notification was queued;
// notification failures never fail the invite itself.
func (s *InviteService) CreateInvite(ctx context.Context, userID, budgetID, invitedEmail, customMessage string) (*models.Invite, bool, error) {
	invitedEmail = strings.ToLower(strings.TrimSpace(invitedEmail))
	if invitedEmail == "" {
		return nil, false, fmt.Errorf("%w: invited email is required", ErrInvalidRequest)
	}

	budget, err := s.store.GetBudget(ctx, budgetID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, ErrNotVisible
	}
	if err != nil {
		return nil, false, err
	}
	if !budget.HasMember(userID) {
		return nil, false, ErrForbidden
	}

	inviter, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if strings.EqualFold(inviter.Email, invitedEmail) {
		return nil, false, fmt.Errorf("%w: cannot invite yourself", ErrInvalidRequest)
	}

	pending, err := s.store.GetPendingInvite(ctx, budgetID, invitedEmail)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}
	if pending != nil && time.Since(time.Unix(pending.CreatedAt, 0)) < inviteResendWindow {
		return nil, false, ErrDuplicateInvite
	}

	invite := &models.Invite{
		ID:            models.NewID(),
		BudgetID:      budgetID,
		InvitedEmail:  invitedEmail,
		CustomMessage: customMessage,
		Status:        models.InviteStatusPending,
		CreatedAt:     time.Now().Unix(),
	}
	if err := s.store.CreateInvite(ctx, invite); err != nil {
		return nil, false, err
	}

	queued := false
	notification := &notify.InviteNotification{
		InviteID:      invite.ID,
		BudgetID:      budget.ID,
		BudgetName:    budget.Name,
		InviterName:   inviter.Name,
		InvitedEmail:  invitedEmail,
		CustomMessage: customMessage,
		Timestamp:     time.Unix(invite.CreatedAt, 0),
	}
	if err := s.notifier.PublishInvite(ctx, notification); err != nil {
		s.logger.Warn("Failed to queue invite notification", "invite_id", invite.ID, "error", err)
	} else {
		queued = true
	}

	s.logger.Info("Invite created", "invite_id", invite.ID, "budget_id", budgetID, "invited_email", invitedEmail)
	return invite, queued, nil
}

// GetInvite returns a single invite by ID.
func (s *InviteService) GetInvite(ctx context.Context, inviteID string) (*models.Invite, error) {
	invite, err := s.store.GetInvite(ctx, inviteID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotVisible
	}
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// ListInvites returns invites matching the filter. Filtering by email shows
// the invitee their open invitations, so it is restricted to Pending ones.
func (s *InviteService) ListInvites(ctx context.Context, filter storage.InviteFilter) ([]*models.Invite, error) {
	filter.Email = strings.ToLower(strings.TrimSpace(filter.Email))
	return s.store.ListInvites(ctx, filter)
}

// RespondToInvite lets the signed-in user accept or decline an invite
// addressed to their email. Accepting adds them to the budget's membership;
// either response is final.
func (s *InviteService) RespondToInvite(ctx context.Context, userID, inviteID, status string) (*models.Invite, error) {
	st, err := models.ParseInviteStatus(status)
	if err != nil || st == models.InviteStatusPending {
		return nil, fmt.Errorf("%w: status must be %q or %q", ErrInvalidRequest, models.InviteStatusAccepted, models.InviteStatusDeclined)
	}

	invite, err := s.store.GetInvite(ctx, inviteID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotVisible
	}
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(user.Email, invite.InvitedEmail) {
		return nil, ErrForbidden
	}
	if invite.Status != models.InviteStatusPending {
		return nil, ErrInviteResponded
	}

	if err := s.store.UpdateInviteStatus(ctx, inviteID, st); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrInviteResponded
		}
		return nil, err
	}
	invite.Status = st

	if st == models.InviteStatusAccepted {
		// Membership add is idempotent, so a budget the user already
		// joined by other means is fine.
		if err := s.store.AddBudgetMember(ctx, invite.BudgetID, userID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	s.logger.Info("Invite responded", "invite_id", inviteID, "user_id", userID, "status", st)
	return invite, nil
}

// DeleteInvite removes an invite. Only members of the invite's budget may
// delete it.
func (s *InviteService) DeleteInvite(ctx context.Context, userID, inviteID string) error {
	invite, err := s.store.GetInvite(ctx, inviteID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotVisible
	}
	if err != nil {
		return err
	}

	budget, err := s.store.GetBudget(ctx, invite.BudgetID)
	if err == nil && !budget.HasMember(userID) {
		return ErrForbidden
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	if err := s.store.DeleteInvite(ctx, inviteID); err != nil {
		return err
	}
	s.logger.Info("Invite deleted", "invite_id", inviteID, "user_id", userID)
	return nil
}
