package web

import (
	"net/http"
	"time"

	"github.com/edvart/dota-league/internal/store"
)

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.stats.DashboardStats(r.Context())
	if err != nil {
		s.log.WithError(err).Error("failed to compute dashboard stats")
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleAttendanceStats(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", 0)
	month := queryInt(r, "month", 0)
	if year < 1 || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "year and month are required")
		return
	}

	report, err := s.stats.AttendanceStats(r.Context(), year, time.Month(month))
	if err != nil {
		s.log.WithError(err).Error("failed to compute attendance stats")
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleWinRateTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := s.stats.WinRateTrend(r.Context())
	if err != nil {
		s.log.WithError(err).Error("failed to load win rate trend")
		trend = []store.TrendPoint{}
	}
	writeJSON(w, http.StatusOK, trend)
}
