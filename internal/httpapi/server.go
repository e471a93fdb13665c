// Package httpapi exposes the budgetsync services over a JSON REST API.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/budgetsync/internal/auth"
	"github.com/mmynk/budgetsync/internal/middleware"
	"github.com/mmynk/budgetsync/internal/models"
	"github.com/mmynk/budgetsync/internal/service"
)

// Server wires the services to HTTP routes.
type Server struct {
	authService    *service.AuthService
	budgetService  *service.BudgetService
	expenseService *service.ExpenseService
	inviteService  *service.InviteService
	jwtManager     *auth.JWTManager
	logger         *slog.Logger

	// rebootID changes every process start so clients can detect restarts.
	rebootID string
}

// NewServer creates the HTTP server around the given services.
func NewServer(
	authService *service.AuthService,
	budgetService *service.BudgetService,
	expenseService *service.ExpenseService,
	inviteService *service.InviteService,
	jwtManager *auth.JWTManager,
	logger *slog.Logger,
) *Server {
	return &Server{
		authService:    authService,
		budgetService:  budgetService,
		expenseService: expenseService,
		inviteService:  inviteService,
		jwtManager:     jwtManager,
		logger:         logger,
		rebootID:       models.NewID(),
	}
}

// Handler builds the full route table. Authenticated routes run through the
// JWT middleware; everything is wrapped with request logging and metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public.
	s.route(mux, "POST /users/register", s.handleRegister)
	s.route(mux, "POST /users/login", s.handleLogin)
	s.route(mux, "GET /health", s.handleHealth)
	s.route(mux, "GET /reboot-id", s.handleRebootID)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Users.
	s.authed(mux, "GET /users/profile", s.handleGetProfile)
	s.authed(mux, "PUT /users/profile", s.handleUpdateProfile)

	// Budgets.
	s.authed(mux, "POST /budgets", s.handleCreateBudget)
	s.authed(mux, "GET /budgets", s.handleListBudgets)
	s.authed(mux, "GET /budgets/{id}", s.handleGetBudget)
	s.authed(mux, "PUT /budgets/{id}", s.handleUpdateBudget)
	s.authed(mux, "DELETE /budgets/{id}", s.handleDeleteBudget)
	s.authed(mux, "PUT /budgets/{id}/leave", s.handleLeaveBudget)
	s.authed(mux, "PUT /budgets/{id}/add-member", s.handleAddMember)
	s.authed(mux, "GET /budgets/{id}/collaborators", s.handleCollaborators)
	s.authed(mux, "GET /budgets/{id}/summary", s.handleBudgetSummary)

	// Expenses.
	s.authed(mux, "POST /expenses", s.handleCreateExpense)
	s.authed(mux, "GET /expenses", s.handleListExpenses)
	s.authed(mux, "GET /expenses/{id}", s.handleGetExpense)
	s.authed(mux, "PUT /expenses/{id}", s.handleUpdateExpense)
	s.authed(mux, "DELETE /expenses/{id}", s.handleDeleteExpense)
	s.authed(mux, "GET /expenses/budget/{budgetId}", s.handleListBudgetExpenses)

	// Invites.
	s.authed(mux, "POST /invites", s.handleCreateInvite)
	s.authed(mux, "GET /invites", s.handleListInvites)
	s.authed(mux, "GET /invites/{id}", s.handleGetInvite)
	s.authed(mux, "PUT /invites/{id}", s.handleRespondToInvite)
	s.authed(mux, "DELETE /invites/{id}", s.handleDeleteInvite)

	return middleware.Logging(mux)
}

// route registers a public handler with metrics instrumentation.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, middleware.Metrics(pattern, h))
}

// authed registers a handler behind JWT authentication.
func (s *Server) authed(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	s.route(mux, pattern, middleware.RequireAuth(s.jwtManager, writeError, h))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRebootID(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"rebootId": s.rebootID})
}
