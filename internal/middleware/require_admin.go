package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireAdmin lets through signed-in users whose email is in admins. It must
// run after AuthRequired. An empty list closes the route to everyone.
func RequireAdmin(admins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(admins))
	for _, email := range admins {
		allowed[strings.ToLower(strings.TrimSpace(email))] = true
	}
	return func(c *gin.Context) {
		email := strings.ToLower(c.GetString(ContextEmail))
		if email == "" || !allowed[email] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access only"})
			return
		}
		c.Next()
	}
}
