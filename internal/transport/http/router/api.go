package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"employee-portal/internal/core/config"
	"employee-portal/internal/core/metrics"
	"employee-portal/internal/core/server"
	mdw "employee-portal/internal/transport/http/middleware"
)

type Options struct {
	HTTP     config.HTTP
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer // serves /metrics when set
}

// NewAPIEngine assembles the middleware chain and mounts mods at the root,
// where the portal frontend expects them.
func NewAPIEngine(l *zap.Logger, o Options, mods ...any) (*gin.Engine, error) {
	r, err := server.NewRouter(o.HTTP.CORSOrigins, o.HTTP.TrustedProxies)
	if err != nil {
		return nil, err
	}

	chain := []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.Recovery(l),
	}
	if o.HTTP.RateLimitRPS > 0 {
		chain = append(chain, mdw.RateLimit(rate.Limit(o.HTTP.RateLimitRPS), max(1, o.HTTP.RateLimitBurst)))
	}
	if o.HTTP.MaxInFlight > 0 {
		chain = append(chain, mdw.ConcurrencyLimit(o.HTTP.MaxInFlight))
	}
	if o.HTTP.MaxBodyMB > 0 {
		chain = append(chain, mdw.MaxBodyBytes(int64(o.HTTP.MaxBodyMB)<<20))
	}
	if o.HTTP.RequestTimeoutSec > 0 {
		chain = append(chain, mdw.Timeout(time.Duration(o.HTTP.RequestTimeoutSec)*time.Second))
	}
	chain = append(chain, mdw.Metrics(o.Metrics), mdw.AccessLog(l))
	r.Use(chain...)

	if o.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(o.Gatherer, promhttp.HandlerOpts{})))
	}

	var reg Registry
	reg.Register(mods...)
	reg.MountAll(&r.RouterGroup)
	return r, nil
}
