package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerPurchase is one settled purchase made by a customer against a price
// cut. Rows are append-only.
type CustomerPurchase struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	PriceCutID   uuid.UUID `gorm:"column:price_cut_id;type:uuid;not null;index:idx_customer_purchases_customer_cut,priority:2"`
	CustomerID   uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index:idx_customer_purchases_customer_cut,priority:1"`
	Quantity     int       `gorm:"column:quantity;not null"`
	PurchaseDate time.Time `gorm:"column:purchase_date;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
