package httpapi

import (
	"net/http"

	"github.com/mmynk/budgetsync/internal/middleware"
	"github.com/mmynk/budgetsync/internal/service"
)

type createBudgetRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	TotalAmount float64 `json:"totalAmount"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	budget, err := s.budgetService.CreateBudget(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Description, req.TotalAmount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, budget)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.budgetService.ListBudgets(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := s.budgetService.GetBudget(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

type updateBudgetRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	TotalAmount *float64 `json:"totalAmount"`
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req updateBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	budget, err := s.budgetService.UpdateBudget(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), service.BudgetUpdate{
		Name:        req.Name,
		Description: req.Description,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.budgetService.DeleteBudget(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "budget deleted"})
}

func (s *Server) handleLeaveBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.budgetService.LeaveBudget(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "left budget"})
}

type addMemberRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	budget, err := s.budgetService.AddMember(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (s *Server) handleCollaborators(w http.ResponseWriter, r *http.Request) {
	collaborators, err := s.budgetService.Collaborators(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, collaborators)
}

func (s *Server) handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.budgetService.Summary(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
