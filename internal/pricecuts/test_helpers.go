package pricecuts

import (
	"testing"
	"time"

	"github.com/andresfigueroa/salescap-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:pricecuts_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.PriceCut{}, &models.CustomerPurchase{}); err != nil {
		t.Fatalf("migrate price cuts: %v", err)
	}
	return db
}

func mustCreatePriceCut(t *testing.T, db *gorm.DB, maxItems int, start, end time.Time) *models.PriceCut {
	t.Helper()
	cut := &models.PriceCut{
		ID:                  uuid.New(),
		ProductID:           uuid.New(),
		SalePrice:           decimal.NewFromFloat(9.99),
		StartDate:           start,
		EndDate:             end,
		MaxItemsPerCustomer: maxItems,
	}
	if err := db.Create(cut).Error; err != nil {
		t.Fatalf("create price cut: %v", err)
	}
	return cut
}
