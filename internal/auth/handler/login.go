package handler

import (
	"net/http"

	"login-service/internal/auth/credentials"
	"login-service/internal/logger"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// Login runs one local credential attempt through the verifier and, on
// success, issues the signed session token. The three caller-visible
// rejections stay distinguishable so the UI knows whether to prompt for a
// second-factor code.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	ip := c.ClientIP()

	if h.limiter != nil {
		ok, err := h.limiter.Allow(ctx, req.Email, ip)
		if err != nil {
			// throttling is advisory; a counter outage must not take
			// down login
			logger.Warn("login limiter unavailable", map[string]any{
				"error": err.Error(),
			})
		} else if !ok {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too_many_attempts",
			})
			return
		}
	}

	res, err := h.verifier.Verify(ctx, credentials.Attempt{
		Email:    req.Email,
		Password: req.Password,
		Code:     req.Code,
	})
	if err != nil {
		logger.Error("credential verification failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}

	switch res.Outcome {
	case credentials.OutcomeAuthenticated:
		if h.limiter != nil {
			_ = h.limiter.Reset(ctx, req.Email, ip)
		}

		view, err := h.issueSession(c, res.User)
		if err != nil {
			logger.Error("token issuance failed", map[string]any{
				"error": err.Error(),
			})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			return
		}

		logger.Info("local login", map[string]any{
			"user_id": res.User.ID,
			"ip":      ip,
		})

		c.JSON(http.StatusOK, gin.H{
			"status": "authenticated",
			"user":   view.User,
		})

	case credentials.OutcomeSecondFactorRequired:
		// not a failed guess, so no limiter hit; the caller re-submits
		// with a code
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "two_factor_required",
		})

	case credentials.OutcomeSecondFactorInvalid:
		h.recordFailure(c, req.Email, ip)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "two_factor_invalid",
		})

	default:
		h.recordFailure(c, req.Email, ip)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid_credentials",
		})
	}
}

func (h *Handler) recordFailure(c *gin.Context, email, ip string) {
	if h.limiter == nil {
		return
	}
	if err := h.limiter.RecordFailure(c.Request.Context(), email, ip); err != nil {
		logger.Warn("login limiter record failed", map[string]any{
			"error": err.Error(),
		})
	}
}
