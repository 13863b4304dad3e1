package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shopmatch/backend/config"
	"github.com/shopmatch/backend/internal/infrastructure/logger"
)

// SetupRouter creates and configures the Gin router. limiter may be nil to
// disable per-IP rate limiting.
func SetupRouter(cfg *config.Config, handler *Handler, log *zap.Logger, limiter *IPRateLimiter) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()

	router.Use(logger.RequestID())
	router.Use(logger.GinMiddleware(log))
	router.Use(logger.Recovery(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	if limiter != nil {
		v1.Use(RateLimitMiddleware(limiter))
	}
	{
		v1.POST("/match", handler.FindMatches)
		v1.POST("/compare", handler.Compare)
		v1.GET("/products/:platform/:id", handler.GetProduct)
	}

	return router
}
