package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"verideal_back_end/internal/models"
	"verideal_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// SessionValidator resolves a bearer token to its claims.
type SessionValidator interface {
	Session(ctx context.Context, token string) (*utils.Claims, error)
}

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextClaims = "claims"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	// browsers cannot set headers on a websocket handshake
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query("token")
	}
	return ""
}

// Unauthorized writes the 401 the storefront turns into a redirect to /login.
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message, "redirect": "/login"})
}

// AuthRequired rejects the request unless it carries a valid, unrevoked token.
func AuthRequired(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			Unauthorized(c, "Missing token")
			return
		}

		claims, err := sessions.Session(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, models.ErrTokenRevoked) {
				Unauthorized(c, "Session has ended")
				return
			}
			Unauthorized(c, "Invalid token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by AuthRequired.
func ClaimsFrom(c *gin.Context) *utils.Claims {
	if v, ok := c.Get(ContextClaims); ok {
		if claims, ok := v.(*utils.Claims); ok {
			return claims
		}
	}
	return nil
}
