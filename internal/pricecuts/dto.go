package pricecuts

import (
	"time"

	"github.com/andresfigueroa/salescap-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceCutDTO represents the price cut payload returned to clients.
type PriceCutDTO struct {
	ID                  uuid.UUID       `json:"id"`
	ProductID           uuid.UUID       `json:"product_id"`
	SalePrice           decimal.Decimal `json:"sale_price"`
	StartDate           time.Time       `json:"start_date"`
	EndDate             time.Time       `json:"end_date"`
	MaxItemsPerCustomer int             `json:"max_items_per_customer"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// NewPriceCutDTO builds a DTO from the persisted model.
func NewPriceCutDTO(cut *models.PriceCut) *PriceCutDTO {
	return &PriceCutDTO{
		ID:                  cut.ID,
		ProductID:           cut.ProductID,
		SalePrice:           cut.SalePrice,
		StartDate:           cut.StartDate,
		EndDate:             cut.EndDate,
		MaxItemsPerCustomer: cut.MaxItemsPerCustomer,
		CreatedAt:           cut.CreatedAt,
		UpdatedAt:           cut.UpdatedAt,
	}
}
