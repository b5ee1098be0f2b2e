package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "employee-portal/internal/transport/http/response"
)

// Counter counts hits on key within a fixed window.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Throttle allows at most max requests per client IP per window, counted in
// a shared store. Counter errors let the request through.
func Throttle(l *zap.Logger, counter Counter, prefix string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := counter.Hit(c.Request.Context(), prefix+":"+c.ClientIP(), window)
		if err != nil {
			l.Warn("throttle counter unavailable", zap.String("prefix", prefix), zap.Error(err))
			c.Next()
			return
		}
		if n > int64(max) {
			c.Header("Retry-After", fmtSeconds(window))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(http.StatusTooManyRequests, ""))
			return
		}
		c.Next()
	}
}

func fmtSeconds(d time.Duration) string {
	s := int64(d / time.Second)
	if s < 1 {
		s = 1
	}
	return strconv.FormatInt(s, 10)
}
