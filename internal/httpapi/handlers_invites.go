package httpapi

import (
	"net/http"

	"github.com/mmynk/budgetsync/internal/middleware"
	"github.com/mmynk/budgetsync/internal/models"
	"github.com/mmynk/budgetsync/internal/storage"
)

type createInviteRequest struct {
	BudgetID      string `json:"budgetId"`
	InvitedEmail  string `json:"invitedEmail"`
	CustomMessage string `json:"customMessage"`
}

type inviteResponse struct {
	Invite      *models.Invite `json:"invite"`
	EmailQueued bool           `json:"emailQueued"`
}

func (s *Server) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	var req createInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	invite, queued, err := s.inviteService.CreateInvite(r.Context(), middleware.GetUserID(r.Context()), req.BudgetID, req.InvitedEmail, req.CustomMessage)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inviteResponse{Invite: invite, EmailQueued: queued})
}

func (s *Server) handleListInvites(w http.ResponseWriter, r *http.Request) {
	filter := storage.InviteFilter{
		BudgetID: r.URL.Query().Get("budgetId"),
		Email:    r.URL.Query().Get("email"),
	}
	invites, err := s.inviteService.ListInvites(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invites)
}

func (s *Server) handleGetInvite(w http.ResponseWriter, r *http.Request) {
	invite, err := s.inviteService.GetInvite(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invite)
}

type respondInviteRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleRespondToInvite(w http.ResponseWriter, r *http.Request) {
	var req respondInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	invite, err := s.inviteService.RespondToInvite(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invite)
}

func (s *Server) handleDeleteInvite(w http.ResponseWriter, r *http.Request) {
	if err := s.inviteService.DeleteInvite(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "invite deleted"})
}
