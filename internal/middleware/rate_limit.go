package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"verideal_back_end/internal/cache"

	"github.com/gin-gonic/gin"
)

const (
	APIMaxRequests    = 100
	CartMaxWrites     = 20
	SearchMaxRequests = 30
	rateWindow        = time.Minute
)

// rateLimit allows max hits per window for the key derived from the request.
// A Redis failure lets the request through.
func rateLimit(store *cache.Store, prefix string, max int64, keyFn func(*gin.Context) string, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := keyFn(c)
		if id == "" {
			c.Next()
			return
		}
		key := prefix + ":" + id

		n, err := store.IncrementRateLimit(c.Request.Context(), key, rateWindow)
		if err != nil {
			log.Printf("⚠️ Rate limit %s unavailable: %v", prefix, err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", max))
		if n > max {
			retry := store.RateLimitTTL(c.Request.Context(), key)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       message,
				"retry_after": int(retry.Seconds()),
			})
			return
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", max-n))
		c.Next()
	}
}

// APIRateLimit caps requests per client IP.
func APIRateLimit(store *cache.Store) gin.HandlerFunc {
	return rateLimit(store, "api_requests", APIMaxRequests, func(c *gin.Context) string {
		return c.ClientIP()
	}, "Too many requests. Try again in a minute")
}

// CartRateLimit caps cart writes per signed-in user.
func CartRateLimit(store *cache.Store) gin.HandlerFunc {
	return rateLimit(store, "cart_writes", CartMaxWrites, func(c *gin.Context) string {
		return c.GetString(ContextUserID)
	}, "Too many cart updates. Slow down a little")
}

func SearchRateLimit(store *cache.Store) gin.HandlerFunc {
	return rateLimit(store, "search_requests", SearchMaxRequests, func(c *gin.Context) string {
		return c.ClientIP()
	}, "Too many searches. Try again in a minute")
}
