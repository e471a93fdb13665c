// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/budgetsync/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a uniqueness constraint is violated or
	// a state transition is no longer allowed.
	ErrConflict = errors.New("record conflict")
)

// InviteFilter narrows ListInvites. Zero value lists everything; Email
// additionally restricts results to Pending invites, since that filter is
// only used to show an invitee their open invitations.
type InviteFilter struct {
	BudgetID string
	Email    string
}

// Store defines the interface for persistence operations. The sqlite
// implementation keeps the budget spent aggregate consistent by recomputing
// it inside the same transaction as any expense mutation that affects it.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Budgets
	CreateBudget(ctx context.Context, budget *models.Budget) error
	GetBudget(ctx context.Context, id string) (*models.Budget, error)
	ListBudgetsByMember(ctx context.Context, userID string) ([]*models.Budget, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) error
	DeleteBudget(ctx context.Context, id string) error
	AddBudgetMember(ctx context.Context, budgetID, userID string) error
	RemoveBudgetMember(ctx context.Context, budgetID, userID string) error
	ListBudgetMembers(ctx context.Context, budgetID string) ([]*models.User, error)

	// Expenses
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error)
	ListExpensesByBudget(ctx context.Context, budgetID string) ([]*models.Expense, error)
	// UpdateExpense persists the expense and, when its budget attachment
	// changed from prevBudgetID, recomputes spent on both budgets in the
	// same transaction.
	UpdateExpense(ctx context.Context, expense *models.Expense, prevBudgetID string) error
	DeleteExpense(ctx context.Context, id string) error
	// RecomputeSpent re-derives the spent aggregate for a budget from its
	// current expenses and stores it. Idempotent.
	RecomputeSpent(ctx context.Context, budgetID string) (float64, error)

	// Invites
	CreateInvite(ctx context.Context, invite *models.Invite) error
	GetInvite(ctx context.Context, id string) (*models.Invite, error)
	GetPendingInvite(ctx context.Context, budgetID, email string) (*models.Invite, error)
	ListInvites(ctx context.Context, filter InviteFilter) ([]*models.Invite, error)
	// UpdateInviteStatus transitions a Pending invite; it returns
	// ErrConflict when the invite has already reached a terminal state.
	UpdateInviteStatus(ctx context.Context, id string, status models.InviteStatus) error
	DeleteInvite(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
