package http

import (
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/microservice-production/internal/http/handlers"
	httpMW "github.com/yungbote/microservice-production/internal/http/middleware"
	"github.com/yungbote/microservice-production/internal/http/response"
	"github.com/yungbote/microservice-production/internal/observability"
	"github.com/yungbote/microservice-production/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	// MaxBodyBytes caps request bodies; zero disables the cap.
	MaxBodyBytes int64
	// Tracing installs otelgin; it reads the global tracer provider.
	Tracing bool

	AuthMiddleware *httpMW.AuthMiddleware
	Metrics        *observability.Metrics
	// ExposeMetrics serves /metrics on the API listener.
	ExposeMetrics bool

	HealthHandler  *httpH.HealthHandler
	RecordHandlers []httpH.Routes
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		response.RespondError(c, nethttp.StatusNotFound, "not_found", errors.New("route not found"))
	})
	r.NoMethod(func(c *gin.Context) {
		response.RespondError(c, nethttp.StatusMethodNotAllowed, "method_not_allowed", errors.New("method not allowed"))
	})

	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.BodyLimit(cfg.MaxBodyBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil && cfg.ExposeMetrics {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	for _, h := range cfg.RecordHandlers {
		h.Register(api)
	}

	return r
}
