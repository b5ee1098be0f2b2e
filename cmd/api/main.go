package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"employee-portal/internal/core/cache"
	"employee-portal/internal/core/config"
	"employee-portal/internal/core/logger"
	"employee-portal/internal/core/metrics"
	"employee-portal/internal/core/server"
	"employee-portal/internal/repo"
	"employee-portal/internal/service"
	"employee-portal/internal/transport/http/handler"
	mdw "employee-portal/internal/transport/http/middleware"
	"employee-portal/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad("")
	log, cleanup := logger.New(cfg.Log)
	defer cleanup()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("api stopped with error", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	log.Info("api stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	stores, err := repo.Open(ctx, cfg.DB, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = stores.Close() }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	employees := service.NewEmployeeService(stores.Employees, service.EmployeeOptions{
		Timeout:      cfg.DB.QueryTimeout(),
		Designations: cfg.Employee.Designations,
		Genders:      cfg.Employee.Genders,
		Metrics:      m,
	})
	admins := service.NewAdminService(stores.Admins, service.AdminOptions{
		Timeout: cfg.DB.QueryTimeout(),
		Metrics: m,
	})

	throttle, closeThrottle := verifyThrottle(ctx, cfg, log)
	defer closeThrottle()

	h := cfg.App.HTTP
	r, err := router.NewAPIEngine(log, router.Options{HTTP: h, Metrics: m, Gatherer: reg},
		handler.NewHealthHandler(stores.Pinger),
		handler.NewEmployeeHandler(employees),
		handler.NewAdminHandler(admins, throttle...),
	)
	if err != nil {
		return err
	}

	srv := server.BuildServer(server.Addr(h.Host, h.Port), r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)
	return server.Run(ctx, srv, log, 10*time.Second)
}

// verifyThrottle limits /validate per client IP. Counts live in redis when it
// is configured and reachable so every replica shares them.
func verifyThrottle(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]gin.HandlerFunc, func()) {
	v := cfg.Verify
	if v.MaxAttempts <= 0 {
		return nil, func() {}
	}
	window := time.Duration(max(1, v.WindowSec)) * time.Second

	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := c.Ping(pctx)
		cancel()
		if err == nil {
			log.Info("verify throttle backed by redis", zap.String("addr", cfg.Redis.Addr))
			return []gin.HandlerFunc{mdw.Throttle(log, c, "verify", v.MaxAttempts, window)},
				func() { _ = c.Close() }
		}
		_ = c.Close()
		log.Warn("redis unreachable, throttling in process", zap.Error(err))
	}

	perSec := rate.Limit(float64(v.MaxAttempts) / window.Seconds())
	return []gin.HandlerFunc{mdw.RateLimitPerIP(perSec, v.MaxAttempts)}, func() {}
}
