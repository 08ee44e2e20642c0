package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceCut represents a promotional sale window for a single product with a
// per-customer purchase cap.
type PriceCut struct {
	ID                  uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	ProductID           uuid.UUID          `gorm:"column:product_id;type:uuid;not null"`
	SalePrice           decimal.Decimal    `gorm:"column:sale_price;type:numeric(12,2);not null"`
	StartDate           time.Time          `gorm:"column:start_date;not null"`
	EndDate             time.Time          `gorm:"column:end_date;not null"`
	MaxItemsPerCustomer int                `gorm:"column:max_items_per_customer;not null"`
	Purchases           []CustomerPurchase `gorm:"foreignKey:PriceCutID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
