package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/budgetsync/internal/models"
	"github.com/mmynk/budgetsync/internal/storage"
)

// CreateInvite persists a new invite.
func (s *SQLiteStore) CreateInvite(ctx context.Context, invite *models.Invite) error {
	if invite.ID == "" {
		invite.ID = uuid.New().String()
	}
	if invite.CreatedAt == 0 {
		invite.CreatedAt = time.Now().Unix()
	}
	if invite.Status == "" {
		invite.Status = models.InviteStatusPending
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO invites (id, budget_id, invited_email, custom_message, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		invite.ID, invite.BudgetID, invite.InvitedEmail, invite.CustomMessage, string(invite.Status), invite.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invite: %w", err)
	}

	return nil
}

func scanInvite(scan func(dest ...any) error) (*models.Invite, error) {
	invite := &models.Invite{}
	var status string
	err := scan(&invite.ID, &invite.BudgetID, &invite.InvitedEmail, &invite.CustomMessage, &status, &invite.CreatedAt)
	if err != nil {
		return nil, err
	}
	invite.Status = models.InviteStatus(status)
	return invite, nil
}

// GetInvite retrieves an invite by ID.
func (s *SQLiteStore) GetInvite(ctx context.Context, id string) (*models.Invite, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, budget_id, invited_email, custom_message, status, created_at FROM invites WHERE id = ?",
		id,
	)
	invite, err := scanInvite(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return invite, nil
}

// GetPendingInvite retrieves the most recent Pending invite for a
// (budget, email) pair, or storage.ErrNotFound when none exists.
func (s *SQLiteStore) GetPendingInvite(ctx context.Context, budgetID, email string) (*models.Invite, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, budget_id, invited_email, custom_message, status, created_at
		FROM invites
		WHERE budget_id = ? AND invited_email = ? AND status = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, budgetID, email, string(models.InviteStatusPending))
	invite, err := scanInvite(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending invite: %w", err)
	}
	return invite, nil
}

// ListInvites retrieves invites matching the filter. An email filter only
// surfaces Pending invites; Accepted and Declined are of no use to an
// invitee's pending list.
func (s *SQLiteStore) ListInvites(ctx context.Context, filter storage.InviteFilter) ([]*models.Invite, error) {
	query := "SELECT id, budget_id, invited_email, custom_message, status, created_at FROM invites"
	var conds []string
	var args []any
	if filter.BudgetID != "" {
		conds = append(conds, "budget_id = ?")
		args = append(args, filter.BudgetID)
	}
	if filter.Email != "" {
		conds = append(conds, "invited_email = ?", "status = ?")
		args = append(args, filter.Email, string(models.InviteStatusPending))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	var invites []*models.Invite
	for rows.Next() {
		invite, err := scanInvite(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, invite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invites: %w", err)
	}

	return invites, nil
}

// UpdateInviteStatus transitions a Pending invite to the given status. The
// Pending guard is part of the UPDATE predicate, so concurrent responders
// cannot both win: the loser sees ErrConflict (already terminal) or
// ErrNotFound (no such invite).
func (s *SQLiteStore) UpdateInviteStatus(ctx context.Context, id string, status models.InviteStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE invites SET status = ? WHERE id = ? AND status = ?",
		string(status), id, string(models.InviteStatusPending),
	)
	if err != nil {
		return fmt.Errorf("failed to update invite status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		// Distinguish a missing invite from one already responded to.
		if _, err := s.GetInvite(ctx, id); err != nil {
			return err
		}
		return storage.ErrConflict
	}

	return nil
}

// DeleteInvite removes an invite by ID.
func (s *SQLiteStore) DeleteInvite(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM invites WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete invite: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	return nil
}
