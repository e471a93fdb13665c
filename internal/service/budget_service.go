package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/budgetsync/internal/models"
	"github.com/mmynk/budgetsync/internal/storage"
	"github.com/mmynk/budgetsync/internal/summary"
)

// BudgetService manages budgets and their memberships.
type BudgetService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewBudgetService creates a new budget service.
func NewBudgetService(store storage.Store, logger *slog.Logger) *BudgetService {
	return &BudgetService{store: store, logger: logger}
}

// Collaborator is a budget member as exposed to other members.
type Collaborator struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateBudget creates a budget owned by userID, who becomes its first member.
func (s *BudgetService) CreateBudget(ctx context.Context, userID, name, description string, totalAmount float64) (*models.Budget, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: budget name is required", ErrInvalidRequest)
	}
	if totalAmount < 0 {
		return nil, fmt.Errorf("%w: total amount cannot be negative", ErrInvalidRequest)
	}

	budget := &models.Budget{
		ID:          models.NewID(),
		Name:        name,
		Description: description,
		TotalAmount: totalAmount,
		Members:     []string{userID},
		CreatedAt:   time.Now().Unix(),
	}
	if err := s.store.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}

	s.logger.Info("Budget created", "budget_id", budget.ID, "user_id", userID)
	return budget, nil
}

// GetBudget returns a budget if the user is a member of it.
func (s *BudgetService) GetBudget(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	budget, err := s.store.GetBudget(ctx, budgetID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotVisible
	}
	if err != nil {
		return nil, err
	}
	if !budget.HasMember(userID) {
		// Hidden budgets are indistinguishable from missing ones.
		return nil, ErrNotVisible
	}
	return budget, nil
}

// ListBudgets returns all budgets the user is a member of.
func (s *BudgetService) ListBudgets(ctx context.Context, userID string) ([]*models.Budget, error) {
	return s.store.ListBudgetsByMember(ctx, userID)
}

// BudgetUpdate carries optional budget changes; nil fields are left untouched.
// The spent aggregate is derived from expenses and is never client-writable.
type BudgetUpdate struct {
	Name        *string
	Description *string
	TotalAmount *float64
}

// UpdateBudget applies changes to a budget the user is a member of.
func (s *BudgetService) UpdateBudget(ctx context.Context, userID, budgetID string, patch BudgetUpdate) (*models.Budget, error) {
	budget, err := s.GetBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, fmt.Errorf("%w: budget name cannot be empty", ErrInvalidRequest)
		}
		budget.Name = *patch.Name
	}
	if patch.Description != nil {
		budget.Description = *patch.Description
	}
	if patch.TotalAmount != nil {
		if *patch.TotalAmount < 0 {
			return nil, fmt.Errorf("%w: total amount cannot be negative", ErrInvalidRequest)
		}
		budget.TotalAmount = *patch.TotalAmount
	}

	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget removes a budget. Expenses recorded against it survive as
// unattached expenses.
func (s *BudgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	if _, err := s.GetBudget(ctx, userID, budgetID); err != nil {
		return err
	}
	if err := s.store.DeleteBudget(ctx, budgetID); err != nil {
		return err
	}
	s.logger.Info("Budget deleted", "budget_id", budgetID, "user_id", userID)
	return nil
}

// LeaveBudget removes the user from the budget's membership. The budget
// persists even if its membership drops to zero.
func (s *BudgetService) LeaveBudget(ctx context.Context, userID, budgetID string) error {
	if _, err := s.GetBudget(ctx, userID, budgetID); err != nil {
		return err
	}
	if err := s.store.RemoveBudgetMember(ctx, budgetID, userID); err != nil {
		return err
	}
	s.logger.Info("Member left budget", "budget_id", budgetID, "user_id", userID)
	return nil
}

// AddMember adds a user to the budget's membership. Adding an existing
// member is a no-op.
func (s *BudgetService) AddMember(ctx context.Context, userID, budgetID, memberID string) (*models.Budget, error) {
	budget, err := s.GetBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUserByID(ctx, memberID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: no such user", ErrInvalidRequest)
		}
		return nil, err
	}
	if budget.HasMember(memberID) {
		return budget, nil
	}
	if err := s.store.AddBudgetMember(ctx, budgetID, memberID); err != nil {
		return nil, err
	}
	budget.Members = append(budget.Members, memberID)
	s.logger.Info("Member added to budget", "budget_id", budgetID, "member_id", memberID)
	return budget, nil
}

// Collaborators returns the budget's members, visible to members only.
func (s *BudgetService) Collaborators(ctx context.Context, userID, budgetID string) ([]Collaborator, error) {
	if _, err := s.GetBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}
	users, err := s.store.ListBudgetMembers(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	collaborators := make([]Collaborator, 0, len(users))
	for _, u := range users {
		collaborators = append(collaborators, Collaborator{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return collaborators, nil
}

// Summary reports the budget's spending broken down by category.
func (s *BudgetService) Summary(ctx context.Context, userID, budgetID string) (*summary.BudgetSummary, error) {
	budget, err := s.GetBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	return summary.Summarize(budget, expenses), nil
}
