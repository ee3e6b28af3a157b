package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openinventory/inventory-admin/internal/apperr"
	"github.com/openinventory/inventory-admin/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string               `json:"token"`
	Identity model.CallerIdentity `json:"identity"`
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	token, identity, err := s.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, loginResponse{
		Token:    token,
		Identity: identity,
	})
}

func (s *Service) logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, _ := strings.CutPrefix(header, "Bearer ")

	if err := s.authSvc.Logout(r.Context(), token); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, map[string]string{"message": "logged out"})
}
