package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresfigueroa/salescap-backend/api/responses"
	"github.com/andresfigueroa/salescap-backend/api/validators"
	"github.com/andresfigueroa/salescap-backend/internal/pricecuts"
	pkgerrors "github.com/andresfigueroa/salescap-backend/pkg/errors"
	"github.com/andresfigueroa/salescap-backend/pkg/logger"
)

type priceCutRequest struct {
	ProductID           string          `json:"product_id" validate:"required,uuid"`
	SalePrice           decimal.Decimal `json:"sale_price"`
	StartDate           time.Time       `json:"start_date" validate:"required"`
	EndDate             time.Time       `json:"end_date" validate:"required"`
	MaxItemsPerCustomer int             `json:"max_items_per_customer" validate:"required,gt=0"`
}

func (r priceCutRequest) toCreateInput() (pricecuts.CreatePriceCutInput, error) {
	productID, err := uuid.Parse(r.ProductID)
	if err != nil {
		return pricecuts.CreatePriceCutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return pricecuts.CreatePriceCutInput{
		ProductID:           productID,
		SalePrice:           r.SalePrice,
		StartDate:           r.StartDate,
		EndDate:             r.EndDate,
		MaxItemsPerCustomer: r.MaxItemsPerCustomer,
	}, nil
}

// CreatePriceCut registers a new price cut.
func CreatePriceCut(svc pricecuts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price cut service unavailable"))
			return
		}

		var payload priceCutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cut, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, cut)
	}
}

// GetPriceCut returns a single price cut by ID.
func GetPriceCut(svc pricecuts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price cut service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "priceCutID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price cut id"))
			return
		}

		cut, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cut)
	}
}

// UpdatePriceCut replaces an existing price cut. Unknown IDs are not created.
func UpdatePriceCut(svc pricecuts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price cut service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "priceCutID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price cut id"))
			return
		}

		var payload priceCutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cut, err := svc.Update(r.Context(), id, pricecuts.UpdatePriceCutInput(input))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cut)
	}
}

// DeletePriceCut removes a price cut. Deleting an unknown ID still succeeds.
func DeletePriceCut(svc pricecuts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price cut service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "priceCutID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price cut id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ListPriceCuts returns all registered price cuts.
func ListPriceCuts(svc pricecuts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price cut service unavailable"))
			return
		}

		cuts, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cuts)
	}
}

// ListPriceCutsByProduct returns the price cuts registered for one product.
func ListPriceCutsByProduct(svc pricecuts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price cut service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		cuts, err := svc.ListByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cuts)
	}
}
