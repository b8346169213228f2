package app

import (
	"strings"

	"github.com/gin-gonic/gin"

	httpserver "github.com/yungbote/microservice-production/internal/http"
	httpMW "github.com/yungbote/microservice-production/internal/http/middleware"
	"github.com/yungbote/microservice-production/internal/observability"
	"github.com/yungbote/microservice-production/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg *Config, h Handlers, metrics *observability.Metrics) *gin.Engine {
	if strings.EqualFold(cfg.LogMode, "production") || strings.EqualFold(cfg.LogMode, "prod") {
		gin.SetMode(gin.ReleaseMode)
	}
	var auth *httpMW.AuthMiddleware
	if secret := strings.TrimSpace(cfg.Auth.JWTSecret); secret != "" {
		auth = httpMW.NewAuthMiddleware(log, secret)
	} else {
		log.Warn("auth.jwt_secret is empty, /api is unauthenticated")
	}
	return httpserver.NewRouter(httpserver.RouterConfig{
		Log:            log,
		ServiceName:    cfg.Otel.ServiceName,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		MaxBodyBytes:   cfg.HTTP.MaxRequestBytes,
		Tracing:        cfg.Otel.Enabled,
		AuthMiddleware: auth,
		Metrics:        metrics,
		ExposeMetrics:  cfg.Metrics.Addr == "",
		HealthHandler:  h.Health,
		RecordHandlers: h.Records,
	})
}
