package web

import (
	"errors"
	"net/http"

	"github.com/edvart/dota-league/internal/auth"
	"github.com/edvart/dota-league/internal/stats"
	"github.com/edvart/dota-league/internal/store"
)

func (s *Server) handleListHeroes(w http.ResponseWriter, r *http.Request) {
	filter := store.HeroFilter{Search: r.URL.Query().Get("search")}

	heroes, err := s.store.ListHeroes(r.Context(), filter)
	if err != nil {
		s.log.WithError(err).Error("failed to list heroes")
		heroes = nil
	}
	if heroes == nil {
		heroes = []store.Hero{}
	}
	writeJSON(w, http.StatusOK, heroes)
}

func (s *Server) handleGetHero(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	hero, err := s.store.GetHero(r.Context(), id)
	if err != nil {
		s.log.WithError(err).Error("failed to get hero")
		hero = nil
	}
	if hero == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, hero)
}

type createHeroRequest struct {
	Name           string  `json:"name"`
	NameLoc        string  `json:"nameLoc"`
	NameEnglishLoc *string `json:"nameEnglishLoc"`
	OrderID        *int64  `json:"orderId"`
	PrimaryAttr    *int    `json:"primaryAttr"`
	BioLoc         *string `json:"bioLoc"`
	HypeLoc        *string `json:"hypeLoc"`
	NpeDescLoc     *string `json:"npeDescLoc"`
	Icon           *string `json:"icon"`
	IndexImg       *string `json:"indexImg"`
	TopImg         *string `json:"topImg"`
	TopVideo       *string `json:"topVideo"`
	CropsImg       *string `json:"cropsImg"`
}

func (s *Server) handleCreateHero(w http.ResponseWriter, r *http.Request) {
	actor := auth.PlayerFromContext(r.Context())

	var req createHeroRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.NameLoc == "" {
		writeError(w, http.StatusBadRequest, "name and nameLoc are required")
		return
	}
	if req.PrimaryAttr == nil {
		writeError(w, http.StatusBadRequest, "primaryAttr is required")
		return
	}

	hero := &store.Hero{
		Name:           req.Name,
		NameLoc:        req.NameLoc,
		NameEnglishLoc: req.NameEnglishLoc,
		OrderID:        req.OrderID,
		PrimaryAttr:    *req.PrimaryAttr,
		BioLoc:         req.BioLoc,
		HypeLoc:        req.HypeLoc,
		NpeDescLoc:     req.NpeDescLoc,
		Icon:           req.Icon,
		IndexImg:       req.IndexImg,
		TopImg:         req.TopImg,
		TopVideo:       req.TopVideo,
		CropsImg:       req.CropsImg,
		Audit:          store.Audit{CreateUserID: &actor.ID, UpdateUserID: &actor.ID},
	}

	if _, err := s.store.CreateHero(r.Context(), hero); err != nil {
		s.log.WithError(err).Error("failed to create hero")
		writeError(w, http.StatusInternalServerError, "failed to create hero")
		return
	}
	writeSuccess(w)
}

type updateHeroRequest struct {
	Name           *string `json:"name"`
	NameLoc        *string `json:"nameLoc"`
	NameEnglishLoc *string `json:"nameEnglishLoc"`
	OrderID        *int64  `json:"orderId"`
	PrimaryAttr    *int    `json:"primaryAttr"`
	BioLoc         *string `json:"bioLoc"`
	HypeLoc        *string `json:"hypeLoc"`
	NpeDescLoc     *string `json:"npeDescLoc"`
	Icon           *string `json:"icon"`
	IndexImg       *string `json:"indexImg"`
	TopImg         *string `json:"topImg"`
	TopVideo       *string `json:"topVideo"`
	CropsImg       *string `json:"cropsImg"`
}

func (s *Server) handleUpdateHero(w http.ResponseWriter, r *http.Request) {
	actor := auth.PlayerFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req updateHeroRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name != nil && *req.Name == "" {
		writeError(w, http.StatusBadRequest, "name must not be empty")
		return
	}
	if req.NameLoc != nil && *req.NameLoc == "" {
		writeError(w, http.StatusBadRequest, "nameLoc must not be empty")
		return
	}

	update := store.HeroUpdate{
		Name:           req.Name,
		NameLoc:        req.NameLoc,
		NameEnglishLoc: req.NameEnglishLoc,
		OrderID:        req.OrderID,
		PrimaryAttr:    req.PrimaryAttr,
		BioLoc:         req.BioLoc,
		HypeLoc:        req.HypeLoc,
		NpeDescLoc:     req.NpeDescLoc,
		Icon:           req.Icon,
		IndexImg:       req.IndexImg,
		TopImg:         req.TopImg,
		TopVideo:       req.TopVideo,
		CropsImg:       req.CropsImg,
		UpdateUserID:   actor.ID,
	}

	if err := s.store.UpdateHero(r.Context(), id, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "hero not found")
			return
		}
		s.log.WithError(err).Error("failed to update hero")
		writeError(w, http.StatusInternalServerError, "failed to update hero")
		return
	}
	writeSuccess(w)
}

func (s *Server) handleDeleteHero(w http.ResponseWriter, r *http.Request) {
	actor := auth.PlayerFromContext(r.Context())
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := s.store.SoftDeleteHero(r.Context(), id, actor.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "hero not found")
			return
		}
		s.log.WithError(err).Error("failed to delete hero")
		writeError(w, http.StatusInternalServerError, "failed to delete hero")
		return
	}
	writeSuccess(w)
}

func (s *Server) handleHeroStats(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	result, err := s.stats.HeroStats(r.Context(), id)
	if err != nil {
		s.log.WithError(err).Error("failed to compute hero stats")
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHeroPlayerStats(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	result, err := s.stats.HeroPlayerStats(r.Context(), id)
	if err != nil {
		s.log.WithError(err).Error("failed to compute hero player stats")
		result = nil
	}
	if result == nil {
		result = []stats.PlayerUsage{}
	}
	writeJSON(w, http.StatusOK, result)
}
