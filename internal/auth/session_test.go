package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edvart/dota-league/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedPlayer(t *testing.T, s *store.SQLiteStore) *store.Player {
	t.Helper()
	id, err := s.CreatePlayer(context.Background(), &store.Player{
		Nickname:    "Alice",
		Username:    "alice",
		Password:    "hash",
		MentalScore: 50,
	})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	p, err := s.GetPlayer(context.Background(), id)
	if err != nil || p == nil {
		t.Fatalf("GetPlayer: %v", err)
	}
	return p
}

func sessionCookie(t *testing.T, sm *SessionManager, player *store.Player) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := sm.CreateSession(rec, player); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", SessionCookieName)
	return nil
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword("hunter2", hash) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	sm := NewSessionManager("test-secret", nil)
	player := &store.Player{ID: 7, Username: "alice", Nickname: "Alice"}

	rec := httptest.NewRecorder()
	if err := sm.CreateSession(rec, player); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	var token string
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			token = c.Value
			if !c.HttpOnly {
				t.Error("session cookie not HttpOnly")
			}
		}
	}
	if token == "" {
		t.Fatal("no session cookie set")
	}

	claims, err := sm.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.PlayerID != 7 || claims.Username != "alice" || claims.Nickname != "Alice" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := NewSessionManager("other-secret", nil).VerifyToken(token); err == nil {
		t.Error("token verified under wrong secret")
	}
	if _, err := sm.VerifyToken("not-a-token"); err == nil {
		t.Error("garbage token verified")
	}
}

func TestGetPlayer(t *testing.T) {
	s := newTestStore(t)
	sm := NewSessionManager("test-secret", s)
	player := seedPlayer(t, s)
	cookie := sessionCookie(t, sm, player)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	got, err := sm.GetPlayer(req.Context(), req)
	if err != nil {
		t.Fatalf("GetPlayer: %v", err)
	}
	if got == nil || got.ID != player.ID {
		t.Fatalf("resolved player = %+v, want id %d", got, player.ID)
	}

	// No cookie means anonymous, not an error.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	got, err = sm.GetPlayer(req.Context(), req)
	if err != nil || got != nil {
		t.Errorf("anonymous request = (%+v, %v), want (nil, nil)", got, err)
	}

	// A valid token for a since-deleted player no longer resolves.
	if err := s.SoftDeletePlayer(context.Background(), player.ID, player.ID); err != nil {
		t.Fatalf("SoftDeletePlayer: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	got, err = sm.GetPlayer(req.Context(), req)
	if err != nil || got != nil {
		t.Errorf("deleted player session = (%+v, %v), want (nil, nil)", got, err)
	}
}

func TestRequireAuth(t *testing.T) {
	s := newTestStore(t)
	sm := NewSessionManager("test-secret", s)
	player := seedPlayer(t, s)

	var seen *store.Player
	handler := RequireAuth(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PlayerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), UnauthedMessage) {
		t.Errorf("body = %q, want %q", rec.Body.String(), UnauthedMessage)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(sessionCookie(t, sm, player))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", rec.Code)
	}
	if seen == nil || seen.ID != player.ID {
		t.Errorf("context player = %+v, want id %d", seen, player.ID)
	}
}
