package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"apartment-search/internal/config"
	"apartment-search/internal/middleware"
)

// NewRouter assembles the engine with the middleware chain and all routes.
func NewRouter(h *ListingHandler, cfg config.ServerConfig, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			log.Error("panic serving request", "path", c.Request.URL.Path, "panic", recovered)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		}),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSOrigin),
		middleware.RateLimit(cfg.RateLimit, cfg.RateBurst),
	)

	h.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}
