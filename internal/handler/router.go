package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig collects what the router needs beyond the handlers.
type RouterConfig struct {
	AllowedOrigins []string
	Middleware     []gin.HandlerFunc
}

// NewRouter wires CORS, middleware and routes onto a fresh engine.
func NewRouter(cfg RouterConfig, counter *CounterHandler, health *HealthHandler) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	corsCfg := corsConfig(cfg.AllowedOrigins)
	router.Use(cors.New(corsCfg))
	if corsCfg.AllowAllOrigins {
		router.Use(anyOrigin())
	}
	router.Use(cfg.Middleware...)

	if health != nil {
		router.GET("/health", health.Health)
		router.GET("/info", health.Info)
	}

	router.Any("/counter", counter.Counter)
	router.Any("/api/counter", counter.Counter)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}

// anyOrigin marks every response as readable cross-origin, including those
// to requests without an Origin header, which the cors middleware skips.
func anyOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        24 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	return cfg
}
