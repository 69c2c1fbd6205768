package controllers

import (
	"net/http"

	"github.com/kisansetu/kisansetu-backend/api/responses"
	statsvc "github.com/kisansetu/kisansetu-backend/internal/stats"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
	"github.com/kisansetu/kisansetu-backend/pkg/logger"
)

// ConsumerDashboard summarizes the authenticated consumer's activity.
func ConsumerDashboard(svc statsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dashboard, err := svc.ConsumerDashboard(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}

// FarmerDashboard summarizes the authenticated farmer's listings, sales, and
// reputation.
func FarmerDashboard(svc statsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dashboard, err := svc.FarmerDashboard(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
