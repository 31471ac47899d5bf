package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"census-app-go/internal/config"
	"census-app-go/internal/domain/access"
	"census-app-go/internal/domain/user"
	"census-app-go/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 12 * time.Hour

var errInvalidToken = errors.New("invalid token")

type UserLoader interface {
	Get(ctx context.Context, id int64) (*user.User, error)
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionAuth issues HS256 session tokens and resolves them, from the session cookie or a
// bearer header, to the current user on every request.
type SessionAuth struct {
	secret       []byte
	ttl          time.Duration
	cookieName   string
	cookieSecure bool
	users        UserLoader
	log          logger.Logger
	now          func() time.Time
}

type contextKey int

const (
	userKey contextKey = iota
)

func NewSessionAuth(cfg config.AuthConfig, users UserLoader, log logger.Logger) *SessionAuth {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	cookieName := strings.TrimSpace(cfg.CookieName)
	if cookieName == "" {
		cookieName = "access_token"
	}
	return &SessionAuth{
		secret:       []byte(cfg.JWTSecret),
		ttl:          ttl,
		cookieName:   cookieName,
		cookieSecure: cfg.CookieSecure,
		users:        users,
		log:          log,
		now:          time.Now,
	}
}

func (a *SessionAuth) Issue(u user.User) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (a *SessionAuth) SetCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *SessionAuth) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := a.tokenFromRequest(r)
		if !ok {
			unauthorized(w)
			return
		}

		userID, err := a.parse(token)
		if err != nil {
			unauthorized(w)
			return
		}

		current, err := a.users.Get(r.Context(), userID)
		if err != nil {
			if !errors.Is(err, user.ErrUserNotFound) {
				a.log.InternalError("auth.session: load user failed", err, "user_id", userID)
			}
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), *current)))
	})
}

func (a *SessionAuth) tokenFromRequest(r *http.Request) (string, bool) {
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token, true
	}
	cookie, err := r.Cookie(a.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (a *SessionAuth) parse(token string) (int64, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return 0, errInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, errInvalidToken
	}
	return userID, nil
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
}

func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userKey).(user.User)
	if !ok || u.ID == 0 {
		return user.User{}, false
	}
	return u, true
}

func ActorFromContext(ctx context.Context) (access.Actor, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return access.Actor{}, false
	}
	return u.Actor(), true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
