package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/edvart/dota-league/internal/auth"
	"github.com/edvart/dota-league/internal/stats"
	"github.com/edvart/dota-league/internal/store"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	filter := store.PlayerFilter{
		Search:             r.URL.Query().Get("search"),
		MmrRank:            r.URL.Query().Get("mmrRank"),
		PreferredPositions: r.URL.Query().Get("preferredPositions"),
	}

	players, err := s.store.ListPlayers(r.Context(), filter)
	if err != nil {
		s.log.WithError(err).Error("failed to list players")
		players = nil
	}
	if players == nil {
		players = []store.Player{}
	}
	writeJSON(w, http.StatusOK, players)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	player, err := s.store.GetPlayer(r.Context(), id)
	if err != nil {
		s.log.WithError(err).Error("failed to get player")
		player = nil
	}
	if player == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

type createPlayerRequest struct {
	Nickname           string  `json:"nickname"`
	Username           string  `json:"username"`
	Password           string  `json:"password"`
	Bio                *string `json:"bio"`
	MmrRank            *string `json:"mmrRank"`
	MentalScore        *int    `json:"mentalScore"`
	PreferredPositions *string `json:"preferredPositions"`
	Icon               *string `json:"icon"`
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	actor := auth.PlayerFromContext(r.Context())

	var req createPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Nickname == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "nickname, username and password are required")
		return
	}
	if req.MentalScore != nil && (*req.MentalScore < 0 || *req.MentalScore > 100) {
		writeError(w, http.StatusBadRequest, "mentalScore must be between 0 and 100")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.WithError(err).Error("failed to hash password")
		writeError(w, http.StatusInternalServerError, "failed to create player")
		return
	}

	player := &store.Player{
		Nickname:           req.Nickname,
		Username:           req.Username,
		Password:           hashed,
		Bio:                req.Bio,
		MmrRank:            req.MmrRank,
		MentalScore:        50,
		PreferredPositions: req.PreferredPositions,
		Icon:               req.Icon,
		Audit:              store.Audit{CreateUserID: &actor.ID, UpdateUserID: &actor.ID},
	}
	if req.MentalScore != nil {
		player.MentalScore = *req.MentalScore
	}

	if _, err := s.store.CreatePlayer(r.Context(), player); err != nil {
		s.log.WithError(err).Error("failed to create player")
		writeError(w, http.StatusInternalServerError, "failed to create player")
		return
	}
	writeSuccess(w)
}

type updatePlayerRequest struct {
	Nickname           *string `json:"nickname"`
	Username           *string `json:"username"`
	Password           *string `json:"password"`
	Bio                *string `json:"bio"`
	MmrRank            *string `json:"mmrRank"`
	MentalScore        *int    `json:"mentalScore"`
	PreferredPositions *string `json:"preferredPositions"`
	Icon               *string `json:"icon"`
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	actor := auth.PlayerFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req updatePlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Nickname != nil && *req.Nickname == "" {
		writeError(w, http.StatusBadRequest, "nickname must not be empty")
		return
	}
	if req.Username != nil && *req.Username == "" {
		writeError(w, http.StatusBadRequest, "username must not be empty")
		return
	}
	if req.MentalScore != nil && (*req.MentalScore < 0 || *req.MentalScore > 100) {
		writeError(w, http.StatusBadRequest, "mentalScore must be between 0 and 100")
		return
	}

	update := store.PlayerUpdate{
		Nickname:           req.Nickname,
		Username:           req.Username,
		Bio:                req.Bio,
		MmrRank:            req.MmrRank,
		MentalScore:        req.MentalScore,
		PreferredPositions: req.PreferredPositions,
		Icon:               req.Icon,
		UpdateUserID:       actor.ID,
	}
	// An empty password means "leave it alone".
	if req.Password != nil && *req.Password != "" {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.log.WithError(err).Error("failed to hash password")
			writeError(w, http.StatusInternalServerError, "failed to update player")
			return
		}
		update.Password = &hashed
	}

	if err := s.store.UpdatePlayer(r.Context(), id, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		s.log.WithError(err).Error("failed to update player")
		writeError(w, http.StatusInternalServerError, "failed to update player")
		return
	}
	writeSuccess(w)
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	actor := auth.PlayerFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := s.store.SoftDeletePlayer(r.Context(), id, actor.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		s.log.WithError(err).Error("failed to delete player")
		writeError(w, http.StatusInternalServerError, "failed to delete player")
		return
	}
	writeSuccess(w)
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	result, err := s.stats.PlayerStats(r.Context(), id)
	if err != nil {
		s.log.WithError(err).Error("failed to compute player stats")
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePlayerHeroStats(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	result, err := s.stats.PlayerHeroStats(r.Context(), id)
	if err != nil {
		s.log.WithError(err).Error("failed to compute player hero stats")
		result = nil
	}
	if result == nil {
		result = []stats.HeroUsage{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePlayerRivals(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	result, err := s.stats.PlayerRivals(r.Context(), id)
	if err != nil {
		s.log.WithError(err).Error("failed to compute player rivals")
		result = nil
	}
	if result == nil {
		result = []stats.Rival{}
	}
	writeJSON(w, http.StatusOK, result)
}

// idParam parses the {id} route parameter, writing a 400 on failure.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
