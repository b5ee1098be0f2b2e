package server_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"employee-portal/internal/core/server"
)

func TestNewRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("all origins by default", func(t *testing.T) {
		r, err := server.NewRouter(nil, nil)
		require.NoError(t, err)
		r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("configured origins", func(t *testing.T) {
		r, err := server.NewRouter([]string{"http://portal.local"}, nil)
		require.NoError(t, err)
		r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://evil.local")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestNewRouter_ClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	clientIP := func(t *testing.T, trusted []string) string {
		t.Helper()
		r, err := server.NewRouter(nil, trusted)
		require.NoError(t, err)
		r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })

		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.RemoteAddr = "10.1.2.3:4567"
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	t.Run("forwarded header ignored without trusted proxies", func(t *testing.T) {
		assert.Equal(t, "10.1.2.3", clientIP(t, nil))
		assert.Equal(t, "10.1.2.3", clientIP(t, []string{}))
	})

	t.Run("forwarded header honoured from a trusted proxy", func(t *testing.T) {
		assert.Equal(t, "203.0.113.9", clientIP(t, []string{"10.0.0.0/8"}))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := server.NewRouter(nil, []string{"not-an-ip"})
		require.ErrorContains(t, err, "trusted proxies")
	})
}

func TestAddr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:3000", server.Addr("0.0.0.0", 3000))
}

func TestRun_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := server.BuildServer(addr, http.NotFoundHandler(), time.Second, time.Second, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx, srv, zap.NewNop(), time.Second) }()

	require.Eventually(t, func() bool {
		c, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		_ = c.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
