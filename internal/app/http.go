package app

import (
	"context"
	"net/http"

	"login-service/internal/auth/credentials"
	"login-service/internal/auth/handler"
	"login-service/internal/auth/provider"
	"login-service/internal/auth/provider/github"
	"login-service/internal/auth/provider/google"
	"login-service/internal/auth/resolver"
	"login-service/internal/auth/twofactor"
	"login-service/internal/config"
	"login-service/internal/logger"
	"login-service/internal/middleware"
	"login-service/internal/ratelimit"
	"login-service/internal/token"
	"login-service/internal/user"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	users := user.NewPostgresStore(infra.DB)
	identityResolver := resolver.NewStoreResolver(users)

	verifier := credentials.NewVerifier(users, twofactor.New())
	codec := token.NewCodec(cfg.JWTSecret, "login-service", cfg.SessionTTL)
	limiter := ratelimit.NewLoginLimiter(
		infra.Redis,
		cfg.LoginAttemptLimit,
		cfg.LoginAttemptWindow,
	)

	var providers []provider.OAuthProvider

	if cfg.GoogleClientID != "" {
		googleProvider, err := google.New(
			ctx,
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
		)
		if err != nil {
			return nil, nil, err
		}
		providers = append(providers, googleProvider)
	} else {
		logger.Warn("google oauth not configured", nil)
	}

	if cfg.GitHubClientID != "" {
		githubProvider, err := github.New(
			cfg.GitHubClientID,
			cfg.GitHubClientSecret,
			cfg.GitHubRedirectURL,
		)
		if err != nil {
			return nil, nil, err
		}
		providers = append(providers, githubProvider)
	} else {
		logger.Warn("github oauth not configured", nil)
	}

	registry := provider.NewRegistry(providers...)

	authHandler := handler.NewHandler(
		registry,
		identityResolver,
		verifier,
		codec,
		limiter,
	)

	authMiddleware := middleware.NewAuthMiddleware(codec)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	api.GET("/me", func(c *gin.Context) {
		view, ok := middleware.SessionFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(200, view)
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
