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

// CreateBudget persists a new budget together with its initial member set.
func (s *SQLiteStore) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	if budget.CreatedAt == 0 {
		budget.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO budgets (id, name, description, total_amount, spent, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		budget.ID, budget.Name, budget.Description, budget.TotalAmount, budget.Spent, budget.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}

	for _, userID := range budget.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO budget_members (budget_id, user_id) VALUES (?, ?)",
			budget.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert budget member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBudget retrieves a budget by ID, including its member set and the ids
// of the expenses currently attached to it.
func (s *SQLiteStore) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	budget := &models.Budget{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, total_amount, spent, created_at FROM budgets WHERE id = ?",
		id,
	).Scan(&budget.ID, &budget.Name, &budget.Description, &budget.TotalAmount, &budget.Spent, &budget.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	if err := s.loadBudgetRefs(ctx, budget); err != nil {
		return nil, err
	}

	return budget, nil
}

// loadBudgetRefs fills in the Members and Expenses id sets.
func (s *SQLiteStore) loadBudgetRefs(ctx context.Context, budget *models.Budget) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM budget_members WHERE budget_id = ? ORDER BY user_id",
		budget.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get budget members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return fmt.Errorf("failed to scan budget member: %w", err)
		}
		budget.Members = append(budget.Members, userID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate budget members: %w", err)
	}

	expRows, err := s.db.QueryContext(ctx,
		"SELECT id FROM expenses WHERE budget_id = ? ORDER BY created_at, id",
		budget.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get budget expenses: %w", err)
	}
	defer expRows.Close()

	for expRows.Next() {
		var expenseID string
		if err := expRows.Scan(&expenseID); err != nil {
			return fmt.Errorf("failed to scan budget expense: %w", err)
		}
		budget.Expenses = append(budget.Expenses, expenseID)
	}
	if err := expRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate budget expenses: %w", err)
	}

	return nil
}

// ListBudgetsByMember retrieves all budgets the user belongs to.
func (s *SQLiteStore) ListBudgetsByMember(ctx context.Context, userID string) ([]*models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.description, b.total_amount, b.spent, b.created_at
		FROM budgets b
		JOIN budget_members m ON m.budget_id = b.id
		WHERE m.user_id = ?
		ORDER BY b.created_at, b.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		budget := &models.Budget{}
		if err := rows.Scan(&budget.ID, &budget.Name, &budget.Description, &budget.TotalAmount, &budget.Spent, &budget.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}

	for _, budget := range budgets {
		if err := s.loadBudgetRefs(ctx, budget); err != nil {
			return nil, err
		}
	}

	return budgets, nil
}

// UpdateBudget persists name, description and total amount changes. The
// spent aggregate is owned by the recompute path and is not written here.
func (s *SQLiteStore) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE budgets SET name = ?, description = ?, total_amount = ? WHERE id = ?",
		budget.Name, budget.Description, budget.TotalAmount, budget.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteBudget removes a budget. Member rows cascade away and attached
// expenses get their budget_id nulled out by the schema's foreign keys, so
// personal expense records survive without dangling references.
func (s *SQLiteStore) DeleteBudget(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
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

// AddBudgetMember adds a user to a budget's member set. Adding an existing
// member is a no-op.
func (s *SQLiteStore) AddBudgetMember(ctx context.Context, budgetID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO budget_members (budget_id, user_id) VALUES (?, ?)",
		budgetID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add budget member: %w", err)
	}
	return nil
}

// RemoveBudgetMember removes a user from a budget's member set. The budget
// itself persists even when the last member leaves.
func (s *SQLiteStore) RemoveBudgetMember(ctx context.Context, budgetID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM budget_members WHERE budget_id = ? AND user_id = ?",
		budgetID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove budget member: %w", err)
	}
	return nil
}

// ListBudgetMembers retrieves the full user records of a budget's members.
func (s *SQLiteStore) ListBudgetMembers(ctx context.Context, budgetID string) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.created_at, u.updated_at
		FROM users u
		JOIN budget_members m ON m.user_id = u.id
		WHERE m.budget_id = ?
		ORDER BY u.name, u.id
	`, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget members: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget member: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budget members: %w", err)
	}

	return users, nil
}
