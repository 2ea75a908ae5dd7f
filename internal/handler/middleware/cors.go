package middleware

import (
	"log/slog"
	"slices"

	"parkspot/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// headers clients need to read regardless of configuration
var alwaysExposed = []string{requestIDHeader, "Location"}

// NewCORSMiddleware builds the CORS policy for the REST API and the live
// stream. A "*" origin opens the API to any origin.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    exposedHeaders(cfg.ExposeHeaders),
		AllowCredentials: cfg.AllowCredentials,
		AllowWebSockets:  true,
		MaxAge:           cfg.MaxAge,
	}
	if slices.Contains(cfg.AllowOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}

	slog.Info("CORS middleware initialized",
		"allow_origins", cfg.AllowOrigins,
		"allow_all", corsCfg.AllowAllOrigins,
		"expose_headers", corsCfg.ExposeHeaders,
	)
	return cors.New(corsCfg)
}

func exposedHeaders(configured []string) []string {
	out := slices.Clone(configured)
	for _, h := range alwaysExposed {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}
