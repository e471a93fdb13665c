package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/budgetsync/internal/models"
	"github.com/mmynk/budgetsync/internal/storage"
)

func TestInviteServiceCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	aliceID := env.registerUser(t, "Alice", "alice@example.com")
	bobID := env.registerUser(t, "Bob", "bob@example.com")

	budget, err := env.budgets.CreateBudget(ctx, aliceID, "Trip", "", 1000)
	if err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}

	t.Run("create publishes notification", func(t *testing.T) {
		invite, queued, err := env.invites.CreateInvite(ctx, aliceID, budget.ID, "Bob@Example.com", "join us")
		if err != nil {
			t.Fatalf("CreateInvite failed: %v", err)
		}
		if invite.Status != models.InviteStatusPending {
			t.Errorf("Status = %s, want Pending", invite.Status)
		}
		if invite.InvitedEmail != "bob@example.com" {
			t.Errorf("Email not normalized: %s", invite.InvitedEmail)
		}
		if !queued {
			t.Error("Expected notification to be queued")
		}
		if len(env.notifier.published) != 1 {
			t.Fatalf("Expected 1 published notification, got %d", len(env.notifier.published))
		}
		n := env.notifier.published[0]
		if n.BudgetName != "Trip" || n.InviterName != "Alice" || n.CustomMessage != "join us" {
			t.Errorf("Notification = %+v", n)
		}
	})

	t.Run("duplicate within window rejected", func(t *testing.T) {
		if _, _, err := env.invites.CreateInvite(ctx, aliceID, budget.ID, "bob@example.com", ""); !errors.Is(err, ErrDuplicateInvite) {
			t.Errorf("Expected ErrDuplicateInvite, got %v", err)
		}
	})

	t.Run("stale pending invite can be re-sent", func(t *testing.T) {
		stale := &models.Invite{
			ID:           models.NewID(),
			BudgetID:     budget.ID,
			InvitedEmail: "carol@example.com",
			Status:       models.InviteStatusPending,
			CreatedAt:    time.Now().Add(-25 * time.Hour).Unix(),
		}
		if err := env.store.CreateInvite(ctx, stale); err != nil {
			t.Fatalf("CreateInvite failed: %v", err)
		}

		if _, _, err := env.invites.CreateInvite(ctx, aliceID, budget.ID, "carol@example.com", ""); err != nil {
			t.Errorf("Re-invite after 24h should succeed: %v", err)
		}
	})

	t.Run("self-invite rejected", func(t *testing.T) {
		if _, _, err := env.invites.CreateInvite(ctx, aliceID, budget.ID, "ALICE@example.com", ""); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Expected ErrInvalidRequest, got %v", err)
		}
	})

	t.Run("non-member cannot invite", func(t *testing.T) {
		if _, _, err := env.invites.CreateInvite(ctx, bobID, budget.ID, "dave@example.com", ""); !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})

	t.Run("missing budget", func(t *testing.T) {
		if _, _, err := env.invites.CreateInvite(ctx, aliceID, "nonexistent-id", "dave@example.com", ""); !errors.Is(err, ErrNotVisible) {
			t.Errorf("Expected ErrNotVisible, got %v", err)
		}
	})

	t.Run("notification failure does not fail the invite", func(t *testing.T) {
		env.notifier.fail = true
		defer func() { env.notifier.fail = false }()

		invite, queued, err := env.invites.CreateInvite(ctx, aliceID, budget.ID, "eve@example.com", "")
		if err != nil {
			t.Fatalf("CreateInvite failed: %v", err)
		}
		if queued {
			t.Error("Expected emailQueued=false on publish failure")
		}
		if invite.Status != models.InviteStatusPending {
			t.Errorf("Invite should still be created, got %+v", invite)
		}
	})
}

func TestInviteServiceRespond(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	aliceID := env.registerUser(t, "Alice", "alice@example.com")
	bobID := env.registerUser(t, "Bob", "bob@example.com")
	carolID := env.registerUser(t, "Carol", "carol@example.com")

	budget, err := env.budgets.CreateBudget(ctx, aliceID, "Trip", "", 1000)
	if err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}
	invite, _, err := env.invites.CreateInvite(ctx, aliceID, budget.ID, "bob@example.com", "")
	if err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}

	t.Run("only the invitee may respond", func(t *testing.T) {
		if _, err := env.invites.RespondToInvite(ctx, carolID, invite.ID, "Accepted"); !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		if _, err := env.invites.RespondToInvite(ctx, bobID, invite.ID, "Pending"); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Pending: expected ErrInvalidRequest, got %v", err)
		}
		if _, err := env.invites.RespondToInvite(ctx, bobID, invite.ID, "Maybe"); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Unknown: expected ErrInvalidRequest, got %v", err)
		}
	})

	t.Run("accept grants membership", func(t *testing.T) {
		responded, err := env.invites.RespondToInvite(ctx, bobID, invite.ID, "Accepted")
		if err != nil {
			t.Fatalf("RespondToInvite failed: %v", err)
		}
		if responded.Status != models.InviteStatusAccepted {
			t.Errorf("Status = %s, want Accepted", responded.Status)
		}

		got, err := env.budgets.GetBudget(ctx, bobID, budget.ID)
		if err != nil {
			t.Fatalf("Bob should now see the budget: %v", err)
		}
		if !got.HasMember(bobID) {
			t.Errorf("Bob missing from members: %v", got.Members)
		}
	})

	t.Run("terminal invite rejects further responses", func(t *testing.T) {
		if _, err := env.invites.RespondToInvite(ctx, bobID, invite.ID, "Declined"); !errors.Is(err, ErrInviteResponded) {
			t.Errorf("Expected ErrInviteResponded, got %v", err)
		}
	})

	t.Run("accept when already a member is a no-op", func(t *testing.T) {
		second, _, err := env.invites.CreateInvite(ctx, aliceID, budget.ID, "carol@example.com", "")
		if err != nil {
			t.Fatalf("CreateInvite failed: %v", err)
		}
		if _, err := env.budgets.AddMember(ctx, aliceID, budget.ID, carolID); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}

		if _, err := env.invites.RespondToInvite(ctx, carolID, second.ID, "Accepted"); err != nil {
			t.Fatalf("Accept as existing member failed: %v", err)
		}

		got, err := env.budgets.GetBudget(ctx, carolID, budget.ID)
		if err != nil {
			t.Fatalf("GetBudget failed: %v", err)
		}
		count := 0
		for _, m := range got.Members {
			if m == carolID {
				count++
			}
		}
		if count != 1 {
			t.Errorf("Expected exactly one membership entry for carol, got %d", count)
		}
	})
}

func TestInviteServiceListAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	aliceID := env.registerUser(t, "Alice", "alice@example.com")
	bobID := env.registerUser(t, "Bob", "bob@example.com")

	budget, err := env.budgets.CreateBudget(ctx, aliceID, "Trip", "", 1000)
	if err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}

	accepted, _, err := env.invites.CreateInvite(ctx, aliceID, budget.ID, "bob@example.com", "")
	if err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}
	if _, err := env.invites.RespondToInvite(ctx, bobID, accepted.ID, "Accepted"); err != nil {
		t.Fatalf("RespondToInvite failed: %v", err)
	}
	pending, _, err := env.invites.CreateInvite(ctx, aliceID, budget.ID, "carol@example.com", "")
	if err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}

	t.Run("budget filter returns all statuses", func(t *testing.T) {
		invites, err := env.invites.ListInvites(ctx, storage.InviteFilter{BudgetID: budget.ID})
		if err != nil {
			t.Fatalf("ListInvites failed: %v", err)
		}
		if len(invites) != 2 {
			t.Errorf("Expected 2 invites, got %d", len(invites))
		}
	})

	t.Run("email filter returns pending only", func(t *testing.T) {
		invites, err := env.invites.ListInvites(ctx, storage.InviteFilter{Email: "Carol@Example.com"})
		if err != nil {
			t.Fatalf("ListInvites failed: %v", err)
		}
		if len(invites) != 1 || invites[0].ID != pending.ID {
			t.Errorf("Expected only carol's pending invite, got %d invites", len(invites))
		}

		none, err := env.invites.ListInvites(ctx, storage.InviteFilter{Email: "bob@example.com"})
		if err != nil {
			t.Fatalf("ListInvites failed: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("Accepted invite should not appear, got %d", len(none))
		}
	})

	t.Run("delete restricted to budget members", func(t *testing.T) {
		outsiderID := env.registerUser(t, "Dave", "dave@example.com")
		if err := env.invites.DeleteInvite(ctx, outsiderID, pending.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
		if err := env.invites.DeleteInvite(ctx, aliceID, pending.ID); err != nil {
			t.Fatalf("DeleteInvite failed: %v", err)
		}
		if _, err := env.invites.GetInvite(ctx, pending.ID); !errors.Is(err, ErrNotVisible) {
			t.Errorf("Expected ErrNotVisible after delete, got %v", err)
		}
	})
}
