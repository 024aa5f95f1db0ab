package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/auth"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/metrics"
)

const identityKey = "identity"

// RequireIdentity verifies the Bearer token and stores the resolved identity
// in the request context. Requests without a valid token get 401.
func RequireIdentity(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "not_authenticated", Message: "missing bearer token"})
			return
		}

		identity, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "not_authenticated", Message: "invalid token"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func identityFrom(c *gin.Context) domain.Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}
	}

	identity, ok := value.(domain.Identity)
	if !ok {
		return domain.Identity{}
	}

	return identity
}

// ObserveRequests records request counts and latency per route. m may be nil.
func ObserveRequests(m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}

		m.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	}
}
