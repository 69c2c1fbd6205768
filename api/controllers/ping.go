package controllers

import (
	"net/http"

	"github.com/kisansetu/kisansetu-backend/api/middleware"
	"github.com/kisansetu/kisansetu-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if role := middleware.RoleFromContext(r.Context()); role != "" {
			payload["role"] = role
		}
		responses.WriteSuccess(w, payload)
	}
}
