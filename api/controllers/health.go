package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/kisansetu/kisansetu-backend/api/responses"
	"github.com/kisansetu/kisansetu-backend/pkg/config"
	"github.com/kisansetu/kisansetu-backend/pkg/db"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
	"github.com/kisansetu/kisansetu-backend/pkg/logger"
	"github.com/kisansetu/kisansetu-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-KisanSetu-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database and Redis both answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-KisanSetu-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				checks["database"] = "unavailable"
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "unavailable"
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
