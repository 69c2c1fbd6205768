package controllers

import (
	"net/http"

	"github.com/kisansetu/kisansetu-backend/api/responses"
	"github.com/kisansetu/kisansetu-backend/api/validators"
	paymentsvc "github.com/kisansetu/kisansetu-backend/internal/payments"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
	"github.com/kisansetu/kisansetu-backend/pkg/logger"
)

// CreateCheckoutSession opens a hosted payment page for an approved online
// order.
func CreateCheckoutSession(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}
		consumerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentsvc.CheckoutSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, payload.OrderID.String())
		}
		session, err := svc.CreateCheckoutSession(ctx, consumerID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// VerifyPayment settles an online order after the consumer returns from the
// provider. Safe to retry.
func VerifyPayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}
		consumerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentsvc.VerifyPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, payload.OrderID.String())
		}
		payment, err := svc.VerifyPayment(ctx, consumerID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

// RecordCashPayment settles a cash order without a provider round trip.
func RecordCashPayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}
		consumerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentsvc.CashPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, payload.OrderID.String())
		}
		payment, err := svc.RecordCashPayment(ctx, consumerID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}
