package controllers

import (
	"net/http"

	"github.com/kartik48/sunitas-creations/api/responses"
	"github.com/kartik48/sunitas-creations/api/validators"
	"github.com/kartik48/sunitas-creations/internal/checkout"
	"github.com/kartik48/sunitas-creations/internal/identity"
	pkgerrors "github.com/kartik48/sunitas-creations/pkg/errors"
	"github.com/kartik48/sunitas-creations/pkg/logger"
	"github.com/kartik48/sunitas-creations/pkg/metrics"
)

// CheckoutSummary prices the caller's cart ahead of confirmation.
func CheckoutSummary(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), identity.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// CheckoutSubmit converts the caller's cart into an order. The body is
// decoded without struct validation here; the checkout service owns the
// precondition ordering (empty cart and stock checks come before field
// validation).
func CheckoutSubmit(svc checkout.Service, m *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkout.Input
		if err := validators.DecodeJSONBodyLoose(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := identity.UserIDFromContext(r.Context())

		order, err := svc.Submit(r.Context(), userID, body)
		if err != nil {
			if m != nil {
				m.IncCheckout(checkoutOutcome(err))
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if m != nil {
			m.IncCheckout("placed")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func checkoutOutcome(err error) string {
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart),
		pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock),
		pkgerrors.IsCode(err, pkgerrors.CodeValidation),
		pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized):
		return "rejected"
	default:
		return "failed"
	}
}
