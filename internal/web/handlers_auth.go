package web

import (
	"net/http"

	"github.com/edvart/dota-league/internal/auth"
	"github.com/edvart/dota-league/internal/store"
)

// publicProfile is the player shape exposed to the client. The password
// hash never leaves the server.
type publicProfile struct {
	ID       int64   `json:"id"`
	Nickname string  `json:"nickname"`
	Username string  `json:"username"`
	Icon     *string `json:"icon"`
}

func toPublicProfile(p *store.Player) publicProfile {
	return publicProfile{ID: p.ID, Nickname: p.Nickname, Username: p.Username, Icon: p.Icon}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool          `json:"success"`
	Player  publicProfile `json:"player"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	player, err := s.store.GetPlayerByUsername(r.Context(), req.Username)
	if err != nil {
		s.log.WithError(err).Error("login lookup failed")
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	// Same message for unknown username and wrong password, to avoid
	// username enumeration.
	if player == nil || !auth.VerifyPassword(req.Password, player.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := s.sessions.CreateSession(w, player); err != nil {
		s.log.WithError(err).Error("failed to create session")
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, Player: toPublicProfile(player)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	player, err := s.sessions.GetPlayer(r.Context(), r)
	if err != nil {
		s.log.WithError(err).Error("failed to resolve session")
	}
	if player == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, toPublicProfile(player))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearSession(w)
	writeSuccess(w)
}
