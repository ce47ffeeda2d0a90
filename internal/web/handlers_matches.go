package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/edvart/dota-league/internal/auth"
	"github.com/edvart/dota-league/internal/store"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type matchListResponse struct {
	Matches []store.MatchWithParticipants `json:"matches"`
	Total   int                           `json:"total"`
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(r, "pageSize", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	matches, err := s.store.ListMatches(r.Context(), page, pageSize)
	if err != nil {
		s.log.WithError(err).Error("failed to list matches")
		writeJSON(w, http.StatusOK, matchListResponse{Matches: []store.MatchWithParticipants{}})
		return
	}
	total, err := s.store.CountMatches(r.Context())
	if err != nil {
		s.log.WithError(err).Error("failed to count matches")
		writeJSON(w, http.StatusOK, matchListResponse{Matches: []store.MatchWithParticipants{}})
		return
	}
	if matches == nil {
		matches = []store.MatchWithParticipants{}
	}
	writeJSON(w, http.StatusOK, matchListResponse{Matches: matches, Total: total})
}

func (s *Server) handleMatchDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	details, err := s.store.GetMatchDetails(r.Context(), id)
	if err != nil {
		s.log.WithError(err).Error("failed to get match details")
		details = nil
	}
	if details == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if details.Participants == nil {
		details.Participants = []store.ParticipantView{}
	}
	writeJSON(w, http.StatusOK, details)
}

type participantRequest struct {
	PlayerID       int64      `json:"playerId"`
	PlayerNickname string     `json:"playerNickname"`
	HeroID         int64      `json:"heroId"`
	HeroName       string     `json:"heroName"`
	TeamSide       store.Side `json:"teamSide"`
	Position       int        `json:"position"`
	IsMvp          int        `json:"isMvp"`
}

func (p participantRequest) validate() error {
	if p.PlayerID <= 0 {
		return errors.New("participant playerId is required")
	}
	if p.PlayerNickname == "" {
		return errors.New("participant playerNickname is required")
	}
	if p.HeroID <= 0 {
		return errors.New("participant heroId is required")
	}
	if !p.TeamSide.Valid() {
		return fmt.Errorf("invalid teamSide %q", p.TeamSide)
	}
	return nil
}

func (p participantRequest) toParticipant(actorID int64) store.MatchParticipant {
	return store.MatchParticipant{
		PlayerID:       p.PlayerID,
		PlayerNickname: p.PlayerNickname,
		HeroID:         p.HeroID,
		HeroName:       p.HeroName,
		TeamSide:       p.TeamSide,
		Position:       p.Position,
		IsMvp:          p.IsMvp,
		Audit:          store.Audit{CreateUserID: &actorID, UpdateUserID: &actorID},
	}
}

type createMatchRequest struct {
	MatchDate    string               `json:"matchDate"`
	WinnerSide   store.Side           `json:"winnerSide"`
	Participants []participantRequest `json:"participants"`
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	actor := auth.PlayerFromContext(r.Context())

	var req createMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	matchDate, err := parseMatchDate(req.MatchDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid matchDate")
		return
	}
	if !req.WinnerSide.Valid() {
		writeError(w, http.StatusBadRequest, "winnerSide must be radiant or dire")
		return
	}
	participants := make([]store.MatchParticipant, 0, len(req.Participants))
	for _, p := range req.Participants {
		if err := p.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		participants = append(participants, p.toParticipant(actor.ID))
	}

	match := &store.Match{
		MatchDate:  matchDate,
		WinnerSide: req.WinnerSide,
		Audit:      store.Audit{CreateUserID: &actor.ID, UpdateUserID: &actor.ID},
	}

	if _, err := s.store.CreateMatch(r.Context(), match, participants); err != nil {
		s.log.WithError(err).Error("failed to create match")
		writeError(w, http.StatusInternalServerError, "failed to create match")
		return
	}
	writeSuccess(w)
}

type updateMatchRequest struct {
	MatchDate    *string              `json:"matchDate"`
	WinnerSide   *store.Side          `json:"winnerSide"`
	Participants []participantRequest `json:"participants"`
}

func (s *Server) handleUpdateMatch(w http.ResponseWriter, r *http.Request) {
	actor := auth.PlayerFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req updateMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := store.MatchUpdate{UpdateUserID: actor.ID}
	if req.MatchDate != nil {
		matchDate, err := parseMatchDate(*req.MatchDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid matchDate")
			return
		}
		update.MatchDate = &matchDate
	}
	if req.WinnerSide != nil {
		if !req.WinnerSide.Valid() {
			writeError(w, http.StatusBadRequest, "winnerSide must be radiant or dire")
			return
		}
		update.WinnerSide = req.WinnerSide
	}
	if req.Participants != nil {
		participants := make([]store.MatchParticipant, 0, len(req.Participants))
		for _, p := range req.Participants {
			if err := p.validate(); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			participants = append(participants, p.toParticipant(actor.ID))
		}
		update.Participants = participants
	}

	if err := s.store.UpdateMatch(r.Context(), id, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		s.log.WithError(err).Error("failed to update match")
		writeError(w, http.StatusInternalServerError, "failed to update match")
		return
	}
	writeSuccess(w)
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	actor := auth.PlayerFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := s.store.SoftDeleteMatch(r.Context(), id, actor.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		s.log.WithError(err).Error("failed to delete match")
		writeError(w, http.StatusInternalServerError, "failed to delete match")
		return
	}
	writeSuccess(w)
}

// parseMatchDate accepts RFC 3339 timestamps and bare dates.
func parseMatchDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}
