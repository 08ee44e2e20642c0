package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/andresfigueroa/salescap-backend/api/responses"
	"github.com/andresfigueroa/salescap-backend/api/validators"
	"github.com/andresfigueroa/salescap-backend/internal/purchases"
	pkgerrors "github.com/andresfigueroa/salescap-backend/pkg/errors"
	"github.com/andresfigueroa/salescap-backend/pkg/logger"
)

type processPurchaseRequest struct {
	PriceCutID string `json:"price_cut_id" validate:"required,uuid"`
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

// ProcessPurchase runs the eligibility check and records the purchase.
func ProcessPurchase(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}

		var payload processPurchaseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		priceCutID, err := uuid.Parse(payload.PriceCutID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price cut id"))
			return
		}
		customerID, err := uuid.Parse(payload.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{
				"price_cut_id": priceCutID.String(),
				"customer_id":  customerID.String(),
			})
		}

		purchase, err := svc.ProcessPurchase(ctx, purchases.ProcessPurchaseInput{
			PriceCutID: priceCutID,
			CustomerID: customerID,
			Quantity:   payload.Quantity,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, purchase)
	}
}

// GetCustomerPurchaseStatus reports a customer's used and remaining allowance
// against one price cut.
func GetCustomerPurchaseStatus(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}

		customerID, err := uuid.Parse(chi.URLParam(r, "customerID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}
		priceCutID, err := uuid.Parse(chi.URLParam(r, "priceCutID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price cut id"))
			return
		}

		status, err := svc.GetCustomerStatus(r.Context(), customerID, priceCutID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, status)
	}
}
