package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"login-service/internal/auth/credentials"
	"login-service/internal/auth/provider"
	"login-service/internal/auth/resolver"
	"login-service/internal/auth/twofactor"
	"login-service/internal/session"
	"login-service/internal/token"
	"login-service/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

const totpSecret = "JBSWY3DPEHPK3PXP"

type fakeLimiter struct {
	denied   bool
	failures int
	resets   int
}

func (f *fakeLimiter) Allow(ctx context.Context, email, ip string) (bool, error) {
	return !f.denied, nil
}

func (f *fakeLimiter) RecordFailure(ctx context.Context, email, ip string) error {
	f.failures++
	return nil
}

func (f *fakeLimiter) Reset(ctx context.Context, email, ip string) error {
	f.resets++
	return nil
}

func newLoginEnv(t *testing.T) (http.Handler, *token.Codec, *fakeLimiter) {
	t.Helper()

	store := user.NewMemoryStore()

	hash, _, err := credentials.HashPassword("correct-horse")
	require.NoError(t, err)
	store.Seed(user.User{
		Email:        "a@x.com",
		Role:         "admin",
		PasswordHash: hash,
	})
	store.Seed(user.User{
		Email:            "2fa@x.com",
		Role:             "user",
		PasswordHash:     hash,
		TwoFactorEnabled: true,
		TwoFactorSecret:  totpSecret,
	})

	codec := token.NewCodec("test-signing-key", "login-service", time.Hour)
	limiter := &fakeLimiter{}

	h := NewHandler(
		provider.NewRegistry(),
		resolver.NewStoreResolver(store),
		credentials.NewVerifier(store, twofactor.New()),
		codec,
		limiter,
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router)

	return router, codec, limiter
}

func postLogin(t *testing.T, router http.Handler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

func TestLoginIssuesTokenWithoutSecondFactor(t *testing.T) {
	router, codec, limiter := newLoginEnv(t)

	w := postLogin(t, router, map[string]string{
		"email":    "a@x.com",
		"password": "correct-horse",
	})

	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie, "successful login must set the session cookie")

	view, err := codec.Decode(cookie.Value)
	require.NoError(t, err)
	require.Equal(t, "admin", view.User.Role)
	require.Equal(t, "a@x.com", view.User.Email)

	require.Equal(t, 1, limiter.resets)
	require.Zero(t, limiter.failures)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	router, _, limiter := newLoginEnv(t)

	w := postLogin(t, router, map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid_credentials")
	require.Nil(t, sessionCookie(w))
	require.Equal(t, 1, limiter.failures)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	router, _, _ := newLoginEnv(t)

	w := postLogin(t, router, map[string]string{
		"email":    "nobody@x.com",
		"password": "correct-horse",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	// unknown email and wrong password must be indistinguishable
	require.Contains(t, w.Body.String(), "invalid_credentials")
}

func TestLoginDemandsSecondFactor(t *testing.T) {
	router, _, limiter := newLoginEnv(t)

	w := postLogin(t, router, map[string]string{
		"email":    "2fa@x.com",
		"password": "correct-horse",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "two_factor_required")
	require.Nil(t, sessionCookie(w), "no token may be issued while a code is pending")
	require.Zero(t, limiter.failures, "a missing code is not a failed guess")
}

func TestLoginRejectsWrongSecondFactorCode(t *testing.T) {
	router, _, limiter := newLoginEnv(t)

	w := postLogin(t, router, map[string]string{
		"email":    "2fa@x.com",
		"password": "correct-horse",
		"code":     "000000",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "two_factor_invalid")
	require.Nil(t, sessionCookie(w))
	require.Equal(t, 1, limiter.failures)
}

func TestLoginAcceptsValidSecondFactorCode(t *testing.T) {
	router, codec, _ := newLoginEnv(t)

	code, err := totp.GenerateCode(totpSecret, time.Now().UTC())
	require.NoError(t, err)

	w := postLogin(t, router, map[string]string{
		"email":    "2fa@x.com",
		"password": "correct-horse",
		"code":     code,
	})

	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)

	view, err := codec.Decode(cookie.Value)
	require.NoError(t, err)
	require.Equal(t, "user", view.User.Role)
}

func TestLoginThrottledByLimiter(t *testing.T) {
	router, _, limiter := newLoginEnv(t)
	limiter.denied = true

	w := postLogin(t, router, map[string]string{
		"email":    "a@x.com",
		"password": "correct-horse",
	})

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "too_many_attempts")
	require.Nil(t, sessionCookie(w))
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	router, _, _ := newLoginEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsCookieAndIsIdempotent(t *testing.T) {
	router, _, _ := newLoginEnv(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNoContent, w.Code)

		cleared := false
		for _, c := range w.Result().Cookies() {
			if c.Name == session.CookieName && c.MaxAge < 0 {
				cleared = true
			}
		}
		require.True(t, cleared)
	}
}
