package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/budgetsync/internal/models"
)

func TestBudgetServiceLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	aliceID := env.registerUser(t, "Alice", "alice@example.com")
	bobID := env.registerUser(t, "Bob", "bob@example.com")

	budget, err := env.budgets.CreateBudget(ctx, aliceID, "Groceries", "weekly shop", 500)
	if err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}
	if !budget.HasMember(aliceID) {
		t.Error("Creator must be the first member")
	}
	if budget.Spent != 0 {
		t.Errorf("Fresh budget spent = %f, want 0", budget.Spent)
	}

	t.Run("non-member sees not found", func(t *testing.T) {
		if _, err := env.budgets.GetBudget(ctx, bobID, budget.ID); !errors.Is(err, ErrNotVisible) {
			t.Errorf("Expected ErrNotVisible for non-member, got %v", err)
		}
		if _, err := env.budgets.Collaborators(ctx, bobID, budget.ID); !errors.Is(err, ErrNotVisible) {
			t.Errorf("Expected ErrNotVisible for collaborators, got %v", err)
		}
	})

	t.Run("patch update", func(t *testing.T) {
		name := "Food"
		total := 600.0
		updated, err := env.budgets.UpdateBudget(ctx, aliceID, budget.ID, BudgetUpdate{Name: &name, TotalAmount: &total})
		if err != nil {
			t.Fatalf("UpdateBudget failed: %v", err)
		}
		if updated.Name != "Food" || updated.TotalAmount != 600 {
			t.Errorf("Patch not applied: %+v", updated)
		}
		if updated.Description != "weekly shop" {
			t.Errorf("Untouched field changed: %s", updated.Description)
		}

		empty := ""
		if _, err := env.budgets.UpdateBudget(ctx, aliceID, budget.ID, BudgetUpdate{Name: &empty}); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Empty name: expected ErrInvalidRequest, got %v", err)
		}
	})

	t.Run("add member and collaborators", func(t *testing.T) {
		if _, err := env.budgets.AddMember(ctx, aliceID, budget.ID, bobID); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		// Adding again is a no-op.
		updated, err := env.budgets.AddMember(ctx, aliceID, budget.ID, bobID)
		if err != nil {
			t.Fatalf("Second AddMember failed: %v", err)
		}
		if len(updated.Members) != 2 {
			t.Errorf("Expected 2 members, got %v", updated.Members)
		}

		collaborators, err := env.budgets.Collaborators(ctx, bobID, budget.ID)
		if err != nil {
			t.Fatalf("Collaborators failed: %v", err)
		}
		if len(collaborators) != 2 {
			t.Errorf("Expected 2 collaborators, got %d", len(collaborators))
		}
		for _, c := range collaborators {
			if c.Email == "" || c.Name == "" {
				t.Errorf("Collaborator missing details: %+v", c)
			}
		}

		if _, err := env.budgets.AddMember(ctx, aliceID, budget.ID, "nonexistent-id"); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Unknown member: expected ErrInvalidRequest, got %v", err)
		}
	})

	t.Run("leave keeps budget alive", func(t *testing.T) {
		if err := env.budgets.LeaveBudget(ctx, bobID, budget.ID); err != nil {
			t.Fatalf("LeaveBudget failed: %v", err)
		}
		if err := env.budgets.LeaveBudget(ctx, aliceID, budget.ID); err != nil {
			t.Fatalf("Last member LeaveBudget failed: %v", err)
		}

		// Zero members: the budget persists but is orphaned.
		got, err := env.store.GetBudget(ctx, budget.ID)
		if err != nil {
			t.Fatalf("Budget should survive empty membership: %v", err)
		}
		if len(got.Members) != 0 {
			t.Errorf("Expected no members, got %v", got.Members)
		}

		if _, err := env.budgets.GetBudget(ctx, aliceID, budget.ID); !errors.Is(err, ErrNotVisible) {
			t.Errorf("Former member should no longer see the budget, got %v", err)
		}
	})
}

func TestBudgetServiceValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.registerUser(t, "Alice", "alice@example.com")

	if _, err := env.budgets.CreateBudget(ctx, aliceID, "", "", 100); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Missing name: expected ErrInvalidRequest, got %v", err)
	}
	if _, err := env.budgets.CreateBudget(ctx, aliceID, "Bad", "", -5); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Negative total: expected ErrInvalidRequest, got %v", err)
	}
}

func TestBudgetServiceDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	aliceID := env.registerUser(t, "Alice", "alice@example.com")
	bobID := env.registerUser(t, "Bob", "bob@example.com")

	budget, err := env.budgets.CreateBudget(ctx, aliceID, "Doomed", "", 100)
	if err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}
	expense, err := env.expenses.CreateExpense(ctx, aliceID, budget.ID, 40, "Food", "lunch")
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	if err := env.budgets.DeleteBudget(ctx, bobID, budget.ID); !errors.Is(err, ErrNotVisible) {
		t.Errorf("Non-member delete: expected ErrNotVisible, got %v", err)
	}
	if err := env.budgets.DeleteBudget(ctx, aliceID, budget.ID); err != nil {
		t.Fatalf("DeleteBudget failed: %v", err)
	}

	// The expense survives, detached from the deleted budget.
	got, err := env.expenses.GetExpense(ctx, aliceID, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense after budget delete failed: %v", err)
	}
	if got.BudgetID != "" {
		t.Errorf("Expected detached expense, got budget %s", got.BudgetID)
	}
}

func TestBudgetServiceSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	aliceID := env.registerUser(t, "Alice", "alice@example.com")
	bobID := env.registerUser(t, "Bob", "bob@example.com")

	budget, err := env.budgets.CreateBudget(ctx, aliceID, "Household", "", 500)
	if err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}
	if _, err := env.budgets.AddMember(ctx, aliceID, budget.ID, bobID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	if _, err := env.expenses.CreateExpense(ctx, aliceID, budget.ID, 450, "Rent", ""); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if _, err := env.expenses.CreateExpense(ctx, bobID, budget.ID, 120, "Food", ""); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	sum, err := env.budgets.Summary(ctx, bobID, budget.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if sum.Spent != 570 || sum.Remaining != -70 {
		t.Errorf("Summary totals = %f/%f, want 570/-70", sum.Spent, sum.Remaining)
	}
	if len(sum.ByCategory) != 2 || sum.ByCategory[0].Category != models.CategoryRent {
		t.Errorf("Unexpected category breakdown: %+v", sum.ByCategory)
	}
}
