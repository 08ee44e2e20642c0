package purchases

import (
	"testing"
	"time"

	"github.com/andresfigueroa/salescap-backend/internal/pricecuts"
	"github.com/andresfigueroa/salescap-backend/pkg/db"
	"github.com/andresfigueroa/salescap-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:purchases_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.PriceCut{}, &models.CustomerPurchase{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// newSerializedTestDB opens a shared in-memory database whose transactions
// take the write lock up front, standing in for the row lock the postgres
// driver takes in production.
func newSerializedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:purchases_" + uuid.NewString() +
		"?mode=memory&cache=shared&_busy_timeout=5000&_txlock=immediate"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.PriceCut{}, &models.CustomerPurchase{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(4)
	return conn
}

func mustCreatePriceCut(t *testing.T, conn *gorm.DB, maxItems int, start, end time.Time) *models.PriceCut {
	t.Helper()
	cut := &models.PriceCut{
		ID:                  uuid.New(),
		ProductID:           uuid.New(),
		SalePrice:           decimal.NewFromFloat(12.50),
		StartDate:           start,
		EndDate:             end,
		MaxItemsPerCustomer: maxItems,
	}
	if err := conn.Create(cut).Error; err != nil {
		t.Fatalf("create price cut: %v", err)
	}
	return cut
}

func newTestService(t *testing.T, conn *gorm.DB, txTimeout time.Duration) Service {
	t.Helper()
	svc, err := NewService(
		db.NewWithConn(conn),
		pricecuts.NewRepository(conn),
		NewRepository(conn),
		nil,
		txTimeout,
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}
