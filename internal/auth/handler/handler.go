package handler

import (
	"context"
	"net/http"
	"time"

	"login-service/internal/auth/credentials"
	"login-service/internal/auth/provider"
	"login-service/internal/auth/resolver"
	"login-service/internal/logger"
	"login-service/internal/session"
	"login-service/internal/token"
	"login-service/internal/user"

	"github.com/gin-gonic/gin"
)

// Limiter throttles local login attempts per account and client address.
// The redis-backed implementation lives in internal/ratelimit.
type Limiter interface {
	Allow(ctx context.Context, email, ip string) (bool, error)
	RecordFailure(ctx context.Context, email, ip string) error
	Reset(ctx context.Context, email, ip string) error
}

type Handler struct {
	providers *provider.Registry
	resolver  resolver.Resolver
	verifier  *credentials.Verifier
	codec     *token.Codec
	limiter   Limiter
}

func NewHandler(
	registry *provider.Registry,
	resolver resolver.Resolver,
	verifier *credentials.Verifier,
	codec *token.Codec,
	limiter Limiter,
) *Handler {
	return &Handler{
		providers: registry,
		resolver:  resolver,
		verifier:  verifier,
		codec:     codec,
		limiter:   limiter,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/oauth/login/:provider", h.oauthLogin)
	r.GET("/oauth/callback/:provider", h.oauthCallback)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
}

// issueSession mints the signed token for a verified user and hands it to
// the client as the session cookie. Both the local and the federated path
// converge here.
func (h *Handler) issueSession(c *gin.Context, u user.User) (session.View, error) {
	signed, err := h.codec.Encode(u)
	if err != nil {
		return session.View{}, err
	}

	session.SetCookie(
		c.Writer,
		signed,
		time.Now().Add(h.codec.TTL()),
		session.CookieOptions{
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		},
	)

	return session.FromUser(u), nil
}

func (h *Handler) oauthLogin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := p.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	errParam := c.Query("error")
	if errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oauth callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "missing pkce verifier",
		})
		return
	}

	identity, err := p.ExchangeCode(
		c.Request.Context(),
		code,
		codeVerifier,
	)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authentication failed",
		})
		return
	}

	u, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to resolve user",
		})
		return
	}

	view, err := h.issueSession(c, u)
	if err != nil {
		logger.Error("token issuance failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal",
		})
		return
	}

	logger.Info("federated login", map[string]any{
		"provider": providerName,
		"user_id":  u.ID,
		"ip":       c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{
		"status": "authenticated",
		"user":   view.User,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	// Sessions are stateless; logout only removes the cookie.
	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Status(http.StatusNoContent)
}
