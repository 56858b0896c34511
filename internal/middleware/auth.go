package middleware

import (
	"context"
	"net/http"
	"strings"

	"login-service/internal/session"
	"login-service/internal/token"
)

// unexported, collision-proof context key
type sessionContextKeyType struct{}

var sessionKey = sessionContextKeyType{}

// SessionFromContext extracts the hydrated session view from context.
func SessionFromContext(ctx context.Context) (session.View, bool) {
	v, ok := ctx.Value(sessionKey).(session.View)
	return v, ok
}

type AuthMiddleware struct {
	Codec *token.Codec
}

func NewAuthMiddleware(codec *token.Codec) *AuthMiddleware {
	return &AuthMiddleware{Codec: codec}
}

// tokenFromRequest reads the session token from the cookie, falling back to
// a bearer Authorization header for non-browser clients.
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return after
	}
	return ""
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Read session token
		raw := tokenFromRequest(r)
		if raw == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 2. Verify and project into a session view
		view, err := a.Codec.Decode(raw)
		if err != nil {
			// expired or tampered token forces re-authentication
			session.ClearCookie(w, session.CookieOptions{
				Secure:   true,
				SameSite: http.SameSiteLaxMode,
			})
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 3. Attach session to context
		ctx := context.WithValue(r.Context(), sessionKey, view)

		// 4. Continue request
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
