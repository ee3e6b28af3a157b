package http

import (
	"net/http"
	"strconv"

	"github.com/openinventory/inventory-admin/internal/auth"
)

func (s *Service) getDashboard(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	data, err := s.dashboardSvc.GetDashboardData(r.Context(), identity)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, data)
}

func (s *Service) listActivities(w http.ResponseWriter, r *http.Request) {
	var limit int32
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err == nil && n > 0 {
			limit = int32(n)
		}
	}

	activities, err := s.dashboardSvc.ListRecentActivities(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, activities)
}
