package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/budgetsync/internal/auth"
	"github.com/mmynk/budgetsync/internal/notify"
	"github.com/mmynk/budgetsync/internal/storage/sqlite"
)

// recordingNotifier captures published notifications for assertions.
type recordingNotifier struct {
	published []*notify.InviteNotification
	fail      bool
}

func (r *recordingNotifier) PublishInvite(_ context.Context, n *notify.InviteNotification) error {
	if r.fail {
		return context.DeadlineExceeded
	}
	r.published = append(r.published, n)
	return nil
}

func (r *recordingNotifier) Close() error { return nil }

type testEnv struct {
	store    *sqlite.SQLiteStore
	auth     *AuthService
	budgets  *BudgetService
	expenses *ExpenseService
	invites  *InviteService
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "budgetsync-service-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret-key", auth.TokenDuration)
	notifier := &recordingNotifier{}

	return &testEnv{
		store:    store,
		auth:     NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger),
		budgets:  NewBudgetService(store, logger),
		expenses: NewExpenseService(store, logger),
		invites:  NewInviteService(store, notifier, logger),
		notifier: notifier,
	}
}

// registerUser registers a user and returns their ID.
func (env *testEnv) registerUser(t *testing.T, name, email string) string {
	t.Helper()
	user, _, err := env.auth.Register(context.Background(), name, email, "password123")
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return user.ID
}
