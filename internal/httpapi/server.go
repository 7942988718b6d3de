package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/medqa-backend/internal/config"
	apiv1 "github.com/yungbote/medqa-backend/internal/httpapi/v1"
	"github.com/yungbote/medqa-backend/internal/platform/logger"
)

const serviceName = "medqa"

func NewServer(cfg *config.Config, log *logger.Logger, svc apiv1.QA) *http.Server {
	h := NewHandler(cfg, log, svc)

	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           h,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
		IdleTimeout:       cfg.HTTP.IdleTimeout.Duration,
		WriteTimeout:      0,
	}
}

func NewHandler(cfg *config.Config, log *logger.Logger, svc apiv1.QA) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(recovery(log))
	r.Use(otelgin.Middleware(serviceName))
	r.Use(traceContext())
	r.Use(requestLogger(log))
	r.Use(corsMiddleware(cfg.HTTP.CORSOrigins))
	r.Use(bodyLimit(cfg.HTTP.MaxRequestBytes))

	r.GET("/healthz", handleHealthz)
	r.GET("/readyz", handleReadyz)

	apiv1.Register(r.Group("/v1"), log, svc, apiv1.Options{
		MaxUploadBytes: cfg.Audio.MaxUploadBytes,
	})

	r.NoRoute(func(c *gin.Context) {
		apiv1.WriteError(c, http.StatusNotFound, "route not found", "not_found", "")
	})
	return r
}
