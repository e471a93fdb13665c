package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/budgetsync/internal/models"
	"github.com/mmynk/budgetsync/internal/storage"
)

// ExpenseService manages expenses and keeps budget aggregates in step with
// them through the store's transactional recompute.
type ExpenseService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewExpenseService creates a new expense service.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

// BudgetExpense pairs an expense with its creator, for budget-scoped
// listings where members want to see who recorded what.
type BudgetExpense struct {
	*models.Expense
	CreatedBy Collaborator `json:"createdBy"`
}

// requireMembership resolves the budget and checks the user belongs to it.
// A missing budget and a hidden one both surface as ErrNotVisible.
func (s *ExpenseService) requireMembership(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	budget, err := s.store.GetBudget(ctx, budgetID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotVisible
	}
	if err != nil {
		return nil, err
	}
	if !budget.HasMember(userID) {
		return nil, ErrForbidden
	}
	return budget, nil
}

// authorizeMutation checks whether the user may update or delete the
// expense: members of the attached budget may, and for a detached expense
// only its creator may.
func (s *ExpenseService) authorizeMutation(ctx context.Context, userID string, expense *models.Expense) error {
	if expense.BudgetID == "" {
		if expense.UserID != userID {
			return ErrNotOwner
		}
		return nil
	}
	_, err := s.requireMembership(ctx, userID, expense.BudgetID)
	return err
}

// CreateExpense records a new expense for userID. When budgetID is non-empty
// the user must be a member of that budget, and the budget's spent aggregate
// is updated in the same transaction as the insert.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID, budgetID string, amount float64, category, description string) (*models.Expense, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	cat, err := models.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if budgetID != "" {
		if _, err := s.requireMembership(ctx, userID, budgetID); err != nil {
			return nil, err
		}
	}

	expense := &models.Expense{
		ID:          models.NewID(),
		BudgetID:    budgetID,
		UserID:      userID,
		Amount:      amount,
		Category:    cat,
		Description: description,
		CreatedAt:   time.Now().Unix(),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("Expense created", "expense_id", expense.ID, "budget_id", budgetID, "user_id", userID, "amount", amount)
	return expense, nil
}

// GetExpense returns an expense visible to the user: one they created, or
// one attached to a budget they are a member of.
func (s *ExpenseService) GetExpense(ctx context.Context, userID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotVisible
	}
	if err != nil {
		return nil, err
	}
	if expense.UserID == userID {
		return expense, nil
	}
	if expense.BudgetID != "" {
		budget, err := s.store.GetBudget(ctx, expense.BudgetID)
		if err == nil && budget.HasMember(userID) {
			return expense, nil
		}
	}
	return nil, ErrNotVisible
}

// ListExpenses returns all expenses created by the user.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.store.ListExpensesByUser(ctx, userID)
}

// ListBudgetExpenses returns a budget's expenses with creator details,
// visible to members only.
func (s *ExpenseService) ListBudgetExpenses(ctx context.Context, userID, budgetID string) ([]BudgetExpense, error) {
	budget, err := s.store.GetBudget(ctx, budgetID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotVisible
	}
	if err != nil {
		return nil, err
	}
	if !budget.HasMember(userID) {
		return nil, ErrNotVisible
	}

	expenses, err := s.store.ListExpensesByBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	creators := make(map[string]Collaborator)
	out := make([]BudgetExpense, 0, len(expenses))
	for _, e := range expenses {
		creator, ok := creators[e.UserID]
		if !ok {
			user, err := s.store.GetUserByID(ctx, e.UserID)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
			if user != nil {
				creator = Collaborator{ID: user.ID, Name: user.Name, Email: user.Email}
			} else {
				creator = Collaborator{ID: e.UserID}
			}
			creators[e.UserID] = creator
		}
		out = append(out, BudgetExpense{Expense: e, CreatedBy: creator})
	}
	return out, nil
}

// ExpenseUpdate carries optional expense changes; nil fields are left
// untouched. BudgetIDSet distinguishes "leave the attachment alone" from
// "detach" (BudgetIDSet with nil BudgetID) and "move" (BudgetIDSet with a
// value).
type ExpenseUpdate struct {
	Amount      *float64
	Category    *string
	Description *string
	BudgetID    *string
	BudgetIDSet bool
}

// UpdateExpense applies changes to an expense the user created. Moving an
// expense between budgets requires membership in both; the affected budgets'
// spent aggregates are recomputed in the same transaction as the update.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, expenseID string, patch ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotVisible
	}
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(ctx, userID, expense); err != nil {
		return nil, err
	}

	prevBudgetID := expense.BudgetID

	if patch.Amount != nil {
		if *patch.Amount <= 0 {
			return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
		}
		expense.Amount = *patch.Amount
	}
	if patch.Category != nil {
		cat, err := models.ParseCategory(*patch.Category)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		expense.Category = cat
	}
	if patch.Description != nil {
		expense.Description = *patch.Description
	}
	if patch.BudgetIDSet {
		newBudgetID := ""
		if patch.BudgetID != nil {
			newBudgetID = *patch.BudgetID
		}
		// Membership in the old budget is covered by authorizeMutation;
		// moving onto a new budget needs membership there as well.
		if newBudgetID != prevBudgetID && newBudgetID != "" {
			if _, err := s.requireMembership(ctx, userID, newBudgetID); err != nil {
				return nil, err
			}
		}
		expense.BudgetID = newBudgetID
	}

	if err := s.store.UpdateExpense(ctx, expense, prevBudgetID); err != nil {
		return nil, err
	}

	s.logger.Info("Expense updated", "expense_id", expense.ID, "user_id", userID)
	return expense, nil
}

// DeleteExpense removes an expense the user created and folds its amount
// back out of the owning budget's spent aggregate.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotVisible
	}
	if err != nil {
		return err
	}
	if err := s.authorizeMutation(ctx, userID, expense); err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}
	s.logger.Info("Expense deleted", "expense_id", expenseID, "user_id", userID)
	return nil
}
