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

// budgetIDValue maps the model's empty-string "no budget" to a SQL NULL.
func budgetIDValue(budgetID string) any {
	if budgetID == "" {
		return nil
	}
	return budgetID
}

// CreateExpense persists a new expense and, when it is attached to a
// budget, recomputes that budget's spent aggregate in the same transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, budget_id, user_id, amount, category, description, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		expense.ID, budgetIDValue(expense.BudgetID), expense.UserID, expense.Amount, string(expense.Category), expense.Description, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if expense.BudgetID != "" {
		if err := recomputeSpentTx(ctx, tx, expense.BudgetID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanExpense(scan func(dest ...any) error) (*models.Expense, error) {
	expense := &models.Expense{}
	var budgetID sql.NullString
	var category string
	err := scan(&expense.ID, &budgetID, &expense.UserID, &expense.Amount, &category, &expense.Description, &expense.CreatedAt)
	if err != nil {
		return nil, err
	}
	expense.BudgetID = budgetID.String
	expense.Category = models.Category(category)
	return expense, nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, budget_id, user_id, amount, category, description, created_at FROM expenses WHERE id = ?",
		id,
	)
	expense, err := scanExpense(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

func (s *SQLiteStore) listExpenses(ctx context.Context, where, arg string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, budget_id, user_id, amount, category, description, created_at FROM expenses WHERE "+where+" = ? ORDER BY created_at, id",
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// ListExpensesByUser retrieves all expenses created by a user.
func (s *SQLiteStore) ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx, "user_id", userID)
}

// ListExpensesByBudget retrieves all expenses attached to a budget,
// regardless of creator.
func (s *SQLiteStore) ListExpensesByBudget(ctx context.Context, budgetID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx, "budget_id", budgetID)
}

// UpdateExpense persists the expense and keeps the spent aggregates
// consistent: when the budget attachment changed from prevBudgetID, both
// the old and the new budget are recomputed inside the same transaction, so
// an expense is never counted in two budgets at once.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense, prevBudgetID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE expenses SET budget_id = ?, amount = ?, category = ?, description = ? WHERE id = ?",
		budgetIDValue(expense.BudgetID), expense.Amount, string(expense.Category), expense.Description, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	if prevBudgetID != "" && prevBudgetID != expense.BudgetID {
		if err := recomputeSpentTx(ctx, tx, prevBudgetID); err != nil {
			return err
		}
	}
	if expense.BudgetID != "" {
		if err := recomputeSpentTx(ctx, tx, expense.BudgetID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense and recomputes its budget's spent
// aggregate in the same transaction.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var budgetID sql.NullString
	err = tx.QueryRowContext(ctx, "SELECT budget_id FROM expenses WHERE id = ?", id).Scan(&budgetID)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get expense budget: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	if budgetID.Valid {
		if err := recomputeSpentTx(ctx, tx, budgetID.String); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
