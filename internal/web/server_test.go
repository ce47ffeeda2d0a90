package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/edvart/dota-league/internal/auth"
	"github.com/edvart/dota-league/internal/stats"
	"github.com/edvart/dota-league/internal/store"
	"github.com/sirupsen/logrus"
)

type testServer struct {
	server *Server
	store  *store.SQLiteStore
	admin  *store.Player
	cookie *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sessions := auth.NewSessionManager("test-secret", st)
	srv := NewServer(st, stats.NewEngine(st), sessions, logger)

	hash, err := auth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	id, err := st.CreatePlayer(context.Background(), &store.Player{
		Nickname:    "Admin",
		Username:    "admin",
		Password:    hash,
		MentalScore: 50,
	})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	admin, err := st.GetPlayer(context.Background(), id)
	if err != nil || admin == nil {
		t.Fatalf("GetPlayer: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := sessions.CreateSession(rec, admin); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie")
	}

	return &testServer{server: srv, store: st, admin: admin, cookie: cookie}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(ts.cookie)
	}
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": "hunter2"}, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Player  struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"player"`
	}
	decodeBody(t, rec, &resp)
	if !resp.Success || resp.Player.Username != "admin" {
		t.Errorf("login response = %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("login response leaks password field")
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("login did not set session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	meRec := httptest.NewRecorder()
	ts.server.ServeHTTP(meRec, req)
	var me struct {
		Username string `json:"username"`
	}
	decodeBody(t, meRec, &me)
	if me.Username != "admin" {
		t.Errorf("me = %+v", me)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"wrong password", map[string]string{"username": "admin", "password": "nope"}},
		{"unknown user", map[string]string{"username": "ghost", "password": "hunter2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/auth/login", tc.body, false)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			var resp struct {
				Error string `json:"error"`
			}
			decodeBody(t, rec, &resp)
			if resp.Error != "Invalid username or password" {
				t.Errorf("error = %q", resp.Error)
			}
		})
	}
}

func TestMeAnonymous(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/auth/me", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "null" {
		t.Errorf("body = %q, want null", rec.Body.String())
	}
}

func TestMutationsRequireSession(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/players"},
		{http.MethodPut, "/api/players/1"},
		{http.MethodDelete, "/api/players/1"},
		{http.MethodPost, "/api/heroes"},
		{http.MethodPost, "/api/matches"},
		{http.MethodDelete, "/api/matches/1"},
	}
	for _, tc := range paths {
		rec := ts.do(t, tc.method, tc.path, map[string]string{}, false)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", tc.method, tc.path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), auth.UnauthedMessage) {
			t.Errorf("%s %s body = %q", tc.method, tc.path, rec.Body.String())
		}
	}
}

func TestGetPlayerMissingReturnsNull(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/players/999", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "null" {
		t.Errorf("body = %q, want null", rec.Body.String())
	}
}

func TestCreateAndListHeroes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/heroes", map[string]any{
		"name":        "npc_dota_hero_axe",
		"nameLoc":     "Axe",
		"primaryAttr": 0,
	}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/heroes", nil, false)
	var heroes []store.Hero
	decodeBody(t, rec, &heroes)
	if len(heroes) != 1 || heroes[0].NameLoc != "Axe" {
		t.Errorf("heroes = %+v", heroes)
	}

	rec = ts.do(t, http.MethodPost, "/api/heroes", map[string]any{"name": "incomplete"}, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("incomplete create status = %d, want 400", rec.Code)
	}
}

func TestCreateMatchEndToEnd(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/heroes", map[string]any{
		"name": "npc_dota_hero_axe", "nameLoc": "Axe", "primaryAttr": 0,
	}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("create hero: %s", rec.Body.String())
	}

	rec = ts.do(t, http.MethodPost, "/api/matches", map[string]any{
		"matchDate":  "2024-03-05",
		"winnerSide": "radiant",
		"participants": []map[string]any{
			{"playerId": ts.admin.ID, "playerNickname": "Admin", "heroId": 1, "teamSide": "radiant", "position": 1},
		},
	}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("create match status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/matches", nil, false)
	var list struct {
		Matches []store.MatchWithParticipants `json:"matches"`
		Total   int                           `json:"total"`
	}
	decodeBody(t, rec, &list)
	if list.Total != 1 || len(list.Matches) != 1 {
		t.Fatalf("list = %+v", list)
	}
	m := list.Matches[0]
	if m.WinnerSide != store.SideRadiant || len(m.Participants) != 1 {
		t.Fatalf("match = %+v", m)
	}
	// Snapshot resolved from the hero's localized name.
	if m.Participants[0].HeroName == nil || *m.Participants[0].HeroName != "Axe" {
		t.Errorf("participant = %+v, want hero name Axe", m.Participants[0])
	}

	rec = ts.do(t, http.MethodGet, "/api/players/"+int64String(ts.admin.ID)+"/stats", nil, false)
	var ps stats.PlayerStats
	decodeBody(t, rec, &ps)
	if ps.TotalMatches != 1 || ps.Wins != 1 {
		t.Errorf("player stats = %+v", ps)
	}
}

func TestCreateMatchValidation(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"bad date", map[string]any{"matchDate": "yesterday", "winnerSide": "radiant"}},
		{"bad winner", map[string]any{"matchDate": "2024-03-05", "winnerSide": "neutral"}},
		{"bad participant side", map[string]any{
			"matchDate": "2024-03-05", "winnerSide": "radiant",
			"participants": []map[string]any{
				{"playerId": 1, "playerNickname": "Admin", "heroId": 1, "teamSide": "middle"},
			},
		}},
		{"missing nickname", map[string]any{
			"matchDate": "2024-03-05", "winnerSide": "radiant",
			"participants": []map[string]any{
				{"playerId": 1, "heroId": 1, "teamSide": "radiant"},
			},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/matches", tc.body, true)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDeleteMatchNotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodDelete, "/api/matches/42", nil, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAttendanceRequiresYearAndMonth(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{
		"/api/dashboard/attendance",
		"/api/dashboard/attendance?year=2024",
		"/api/dashboard/attendance?year=2024&month=13",
	} {
		rec := ts.do(t, http.MethodGet, path, nil, false)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", path, rec.Code)
		}
	}

	rec := ts.do(t, http.MethodGet, "/api/dashboard/attendance?year=2024&month=3", nil, false)
	if rec.Code != http.StatusOK {
		t.Errorf("valid request status = %d, want 200", rec.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/dashboard/stats", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var dash stats.Dashboard
	decodeBody(t, rec, &dash)
	if dash.RadiantWinRate != 50 || dash.DireWinRate != 50 {
		t.Errorf("empty league side rates = %f/%f, want 50/50", dash.RadiantWinRate, dash.DireWinRate)
	}
	if dash.TotalPlayers != 1 {
		t.Errorf("totalPlayers = %d, want 1", dash.TotalPlayers)
	}
}

func int64String(n int64) string {
	return strconv.FormatInt(n, 10)
}
