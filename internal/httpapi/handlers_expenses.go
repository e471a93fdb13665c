package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mmynk/budgetsync/internal/middleware"
	"github.com/mmynk/budgetsync/internal/service"
)

type createExpenseRequest struct {
	BudgetID    string  `json:"budgetId"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	expense, err := s.expenseService.CreateExpense(r.Context(), middleware.GetUserID(r.Context()), req.BudgetID, req.Amount, req.Category, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenseService.ListExpenses(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenseService.GetExpense(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleListBudgetExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenseService.ListBudgetExpenses(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("budgetId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// handleUpdateExpense decodes the body into raw fields so that an explicit
// `"budgetId": null` (detach) can be told apart from the key being absent
// (leave attachment alone).
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		writeServiceError(w, err)
		return
	}

	var patch service.ExpenseUpdate
	if v, ok := raw["amount"]; ok {
		if err := json.Unmarshal(v, &patch.Amount); err != nil {
			writeError(w, http.StatusBadRequest, "invalid amount")
			return
		}
	}
	if v, ok := raw["category"]; ok {
		if err := json.Unmarshal(v, &patch.Category); err != nil {
			writeError(w, http.StatusBadRequest, "invalid category")
			return
		}
	}
	if v, ok := raw["description"]; ok {
		if err := json.Unmarshal(v, &patch.Description); err != nil {
			writeError(w, http.StatusBadRequest, "invalid description")
			return
		}
	}
	if v, ok := raw["budgetId"]; ok {
		patch.BudgetIDSet = true
		if err := json.Unmarshal(v, &patch.BudgetID); err != nil {
			writeError(w, http.StatusBadRequest, "invalid budgetId")
			return
		}
	}

	expense, err := s.expenseService.UpdateExpense(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenseService.DeleteExpense(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}
