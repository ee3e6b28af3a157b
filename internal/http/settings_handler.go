package http

import (
	"encoding/json"
	"net/http"

	"github.com/openinventory/inventory-admin/internal/apperr"
	"github.com/openinventory/inventory-admin/internal/auth"
	"github.com/openinventory/inventory-admin/internal/service"
)

type updateSettingsRequest struct {
	Username string `json:"username"`
	Currency string `json:"currency"`
}

func (s *Service) getSettings(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	settings, err := s.settingsSvc.GetSettings(r.Context(), identity)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, settings)
}

func (s *Service) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	identity, _ := auth.FromContext(r.Context())

	settings, err := s.settingsSvc.UpdateSettings(r.Context(), identity, service.UpdateSettingsParams{
		Username: req.Username,
		Currency: req.Currency,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, settings)
}
