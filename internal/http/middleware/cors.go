package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/hateco-vn/quotation-api/internal/config"
	"go.uber.org/zap"
)

func isDevEnvironment(env string) bool {
	return env == "development" || env == "local" || env == ""
}

// CORS builds the cross-origin middleware from config. Origin handling:
// an explicit list is used as-is, "*" or an empty list in development
// allows every origin, and an empty list in production denies everything.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	allowAny := func(r *http.Request, origin string) bool { return origin != "" }
	denyAll := func(r *http.Request, origin string) bool { return false }

	hasWildcard := false
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			hasWildcard = true
			break
		}
	}

	switch {
	case hasWildcard:
		if !isDevEnvironment(environment) {
			logger.Warn("wildcard CORS origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAny
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS origins configured",
			zap.Strings("origins", cfg.AllowedOrigins))
	case isDevEnvironment(environment):
		options.AllowOriginFunc = allowAny
		logger.Info("CORS allowing all origins in development")
	default:
		// cors.Options treats an empty AllowedOrigins as "*", so deny
		// explicitly when production config names no origins.
		options.AllowOriginFunc = denyAll
		logger.Warn("no CORS origins configured, denying cross-origin requests",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}
