package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"employee-portal/internal/domain"
)

type HealthHandler struct {
	db      domain.Pinger
	timeout time.Duration
}

func NewHealthHandler(db domain.Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

func (h *HealthHandler) Priority() int { return 0 }

func (h *HealthHandler) MountAPI(g *gin.RouterGroup) {
	g.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"database": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"database": "ok"})
	})
}
