package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/kartik48/sunitas-creations/api/responses"
	"github.com/kartik48/sunitas-creations/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness only.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady reports readiness of the API's backing stores.
func HealthReady(database, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{
			"status":   "ok",
			"database": "ok",
			"cache":    "ok",
		}
		healthy := true

		if database != nil {
			if err := database.Ping(ctx); err != nil {
				status["database"] = "unavailable"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "health.database", err)
				}
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				status["cache"] = "unavailable"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "health.cache", err)
				}
			}
		}

		if !healthy {
			status["status"] = "degraded"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
