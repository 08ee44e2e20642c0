package purchases

import (
	"time"

	"github.com/andresfigueroa/salescap-backend/pkg/db/models"
	"github.com/google/uuid"
)

// PurchaseDTO represents one recorded purchase.
type PurchaseDTO struct {
	ID           uuid.UUID `json:"id"`
	PriceCutID   uuid.UUID `json:"price_cut_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	Quantity     int       `json:"quantity"`
	PurchaseDate time.Time `json:"purchase_date"`
}

// NewPurchaseDTO builds a DTO from the persisted model.
func NewPurchaseDTO(purchase *models.CustomerPurchase) *PurchaseDTO {
	return &PurchaseDTO{
		ID:           purchase.ID,
		PriceCutID:   purchase.PriceCutID,
		CustomerID:   purchase.CustomerID,
		Quantity:     purchase.Quantity,
		PurchaseDate: purchase.PurchaseDate,
	}
}

// CustomerStatusDTO carries a customer's purchases against one price cut
// along with their aggregate standing.
type CustomerStatusDTO struct {
	PriceCutID          uuid.UUID     `json:"price_cut_id"`
	CustomerID          uuid.UUID     `json:"customer_id"`
	Purchases           []PurchaseDTO `json:"purchases"`
	PurchasedQuantity   int           `json:"purchased_quantity"`
	RemainingAllowance  int           `json:"remaining_allowance"`
	MaxItemsPerCustomer int           `json:"max_items_per_customer"`
	SaleActive          bool          `json:"sale_active"`
}

// NewPurchaseDTOs converts persisted ledger rows in order.
func NewPurchaseDTOs(rows []models.CustomerPurchase) []PurchaseDTO {
	dtos := make([]PurchaseDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewPurchaseDTO(&rows[i])
	}
	return dtos
}
