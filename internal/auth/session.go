package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/edvart/dota-league/internal/store"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookieName = "app_session_id"
	SessionDuration   = 7 * 24 * time.Hour
)

// UnauthedMessage is returned to callers of protected operations that
// carry no valid session.
const UnauthedMessage = "Please login (10001)"

// SessionClaims is the signed payload carried in the session cookie.
type SessionClaims struct {
	PlayerID int64  `json:"playerId"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies signed session tokens. Sessions are
// stateless: the cookie holds everything, the store is only consulted to
// resolve the live player row.
type SessionManager struct {
	secret []byte
	store  store.Store
}

// NewSessionManager creates a session manager signing with the given secret.
func NewSessionManager(secret string, st store.Store) *SessionManager {
	return &SessionManager{secret: []byte(secret), store: st}
}

// CreateSession signs a token for the player and sets the session cookie.
func (sm *SessionManager) CreateSession(w http.ResponseWriter, player *store.Player) error {
	now := time.Now()
	claims := SessionClaims{
		PlayerID: player.ID,
		Username: player.Username,
		Nickname: player.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionDuration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(SessionDuration),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSession expires the session cookie.
func (sm *SessionManager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// VerifyToken parses and validates a raw session token.
func (sm *SessionManager) VerifyToken(raw string) (*SessionClaims, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return sm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

// GetPlayer resolves the request's session cookie to the live player row.
// Missing cookie, invalid token, and deleted player all yield (nil, nil):
// the request proceeds anonymously.
func (sm *SessionManager) GetPlayer(ctx context.Context, r *http.Request) (*store.Player, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, nil
	}

	claims, err := sm.VerifyToken(cookie.Value)
	if err != nil {
		return nil, nil
	}

	return sm.store.GetPlayer(ctx, claims.PlayerID)
}

// RequireAuth middleware rejects requests without a valid session and
// stores the resolved player in the request context.
func RequireAuth(sessions *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			player, err := sessions.GetPlayer(r.Context(), r)
			if err != nil || player == nil {
				http.Error(w, UnauthedMessage, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), playerContextKey, player)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type contextKey string

const playerContextKey contextKey = "player"

// PlayerFromContext retrieves the authenticated player from the request
// context, or nil outside RequireAuth.
func PlayerFromContext(ctx context.Context) *store.Player {
	player, _ := ctx.Value(playerContextKey).(*store.Player)
	return player
}
