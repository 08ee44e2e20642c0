package pricecuts

import (
	"context"
	"errors"

	"github.com/andresfigueroa/salescap-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository wires together price cut persistence helpers.
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

// FindByID loads the price cut, returning nil when no row exists.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PriceCut, error) {
	var cut models.PriceCut
	if err := r.db.WithContext(ctx).First(&cut, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cut, nil
}

// FindByIDForUpdate loads the price cut under a row lock so concurrent
// purchase checks against the same cut serialize. Returns nil when absent.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.PriceCut, error) {
	var cut models.PriceCut
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cut, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cut, nil
}

// Create inserts a new price cut row.
func (r *Repository) Create(ctx context.Context, cut *models.PriceCut) (*models.PriceCut, error) {
	if err := r.db.WithContext(ctx).Create(cut).Error; err != nil {
		return nil, err
	}
	return cut, nil
}

// Update saves the full price cut row.
func (r *Repository) Update(ctx context.Context, cut *models.PriceCut) (*models.PriceCut, error) {
	if err := r.db.WithContext(ctx).Save(cut).Error; err != nil {
		return nil, err
	}
	return cut, nil
}

// Delete removes a price cut by ID. Deleting an absent row is a no-op.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PriceCut{}).Error
}

// List returns all price cuts ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.PriceCut, error) {
	var rows []models.PriceCut
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListByProduct returns the price cuts registered for a product.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.PriceCut, error) {
	var rows []models.PriceCut
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("start_date ASC").
		Find(&rows).
		Error
	return rows, err
}
