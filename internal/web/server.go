package web

import (
	"net/http"

	"github.com/edvart/dota-league/internal/auth"
	"github.com/edvart/dota-league/internal/stats"
	"github.com/edvart/dota-league/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Server holds the HTTP API and its dependencies.
type Server struct {
	router   *chi.Mux
	store    store.Store
	stats    *stats.Engine
	sessions *auth.SessionManager
	log      *logrus.Logger
}

// NewServer creates the API server.
func NewServer(st store.Store, engine *stats.Engine, sessions *auth.SessionManager, log *logrus.Logger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		store:    st,
		stats:    engine,
		sessions: sessions,
		log:      log,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.log))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Get("/auth/me", s.handleMe)
		r.Post("/auth/logout", s.handleLogout)

		r.Get("/players", s.handleListPlayers)
		r.Get("/players/{id}", s.handleGetPlayer)
		r.Get("/players/{id}/stats", s.handlePlayerStats)
		r.Get("/players/{id}/hero-stats", s.handlePlayerHeroStats)
		r.Get("/players/{id}/rivals", s.handlePlayerRivals)

		r.Get("/heroes", s.handleListHeroes)
		r.Get("/heroes/{id}", s.handleGetHero)
		r.Get("/heroes/{id}/stats", s.handleHeroStats)
		r.Get("/heroes/{id}/player-stats", s.handleHeroPlayerStats)

		r.Get("/matches", s.handleListMatches)
		r.Get("/matches/{id}", s.handleMatchDetails)

		r.Get("/dashboard/stats", s.handleDashboardStats)
		r.Get("/dashboard/attendance", s.handleAttendanceStats)
		r.Get("/dashboard/win-rate-trend", s.handleWinRateTrend)

		// Mutations require a session.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(s.sessions))

			r.Post("/players", s.handleCreatePlayer)
			r.Put("/players/{id}", s.handleUpdatePlayer)
			r.Delete("/players/{id}", s.handleDeletePlayer)

			r.Post("/heroes", s.handleCreateHero)
			r.Put("/heroes/{id}", s.handleUpdateHero)
			r.Delete("/heroes/{id}", s.handleDeleteHero)

			r.Post("/matches", s.handleCreateMatch)
			r.Put("/matches/{id}", s.handleUpdateMatch)
			r.Delete("/matches/{id}", s.handleDeleteMatch)
		})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
