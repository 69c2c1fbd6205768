package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kisansetu/kisansetu-backend/api/middleware"
	"github.com/kisansetu/kisansetu-backend/internal/orders"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
)

func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func currentActor(r *http.Request) (orders.Actor, error) {
	userID, err := currentUserID(r)
	if err != nil {
		return orders.Actor{}, err
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return orders.Actor{}, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "unknown role")
	}
	return orders.Actor{UserID: userID, Role: role}, nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+param)
	}
	return id, nil
}
