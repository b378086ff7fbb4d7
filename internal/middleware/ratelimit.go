package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/imrishuroy/go-qrcode-api/internal/response"
)

// staleAfter is how long an idle client's limiter is kept before pruning.
const staleAfter = 3 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit allows up to max requests per window per client IP, for paths
// under pathPrefix. The window/max pair translates to a token bucket that
// refills at max/window with burst max, which matches the fixed-window
// limiter it replaces closely enough for abuse blocking.
func RateLimit(max int, window time.Duration, pathPrefix string) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string]*clientLimiter)
	every := rate.Every(window / time.Duration(max))
	lastPrune := time.Now()

	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, pathPrefix) {
			c.Next()
			return
		}

		ip := c.ClientIP()

		mu.Lock()
		if now := time.Now(); now.Sub(lastPrune) > staleAfter {
			for k, v := range clients {
				if now.Sub(v.lastSeen) > staleAfter {
					delete(clients, k)
				}
			}
			lastPrune = now
		}
		cl, ok := clients[ip]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(every, max)}
			clients[ip] = cl
		}
		cl.lastSeen = time.Now()
		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			response.Err(c, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}
