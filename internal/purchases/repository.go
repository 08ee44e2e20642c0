package purchases

import (
	"context"

	"github.com/andresfigueroa/salescap-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the append-only ledger of settled customer purchases.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// SumQuantity totals the quantity a customer has purchased against a price
// cut. Customers with no purchases sum to zero.
func (r *Repository) SumQuantity(ctx context.Context, priceCutID, customerID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.CustomerPurchase{}).
		Where("price_cut_id = ? AND customer_id = ?", priceCutID, customerID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).
		Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// Append inserts a new purchase row. Existing rows are never mutated.
func (r *Repository) Append(ctx context.Context, purchase *models.CustomerPurchase) (*models.CustomerPurchase, error) {
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

// ListForCustomer returns a customer's purchases for one price cut, oldest
// first.
func (r *Repository) ListForCustomer(ctx context.Context, priceCutID, customerID uuid.UUID) ([]models.CustomerPurchase, error) {
	var rows []models.CustomerPurchase
	err := r.db.WithContext(ctx).
		Where("price_cut_id = ? AND customer_id = ?", priceCutID, customerID).
		Order("purchase_date ASC").
		Find(&rows).
		Error
	return rows, err
}
