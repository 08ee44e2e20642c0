package db

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/andresfigueroa/salescap-backend/pkg/errors"
)

type testModel struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := NewWithConn(db)

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	client := NewWithConn(db)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestWrapErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want pkgerrors.Code
	}{
		{"sqlite check", errors.New("CHECK constraint failed: quantity"), pkgerrors.CodeValidation},
		{"postgres check", errors.New(`new row violates check constraint "price_cuts_window_check"`), pkgerrors.CodeValidation},
		{"postgres unique", errors.New(`duplicate key value violates unique constraint "price_cuts_pkey"`), pkgerrors.CodeConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: price_cuts.id"), pkgerrors.CodeConflict},
		{"connection failure", errors.New("connection refused"), pkgerrors.CodeDependency},
	}

	for _, tc := range cases {
		typed := pkgerrors.As(WrapError(tc.err, "persist"))
		if typed == nil {
			t.Fatalf("%s: expected a typed error", tc.name)
		}
		if typed.Code() != tc.want {
			t.Fatalf("%s: expected code %s, got %s", tc.name, tc.want, typed.Code())
		}
	}
}

func TestIsCheckViolation(t *testing.T) {
	if IsCheckViolation(nil) {
		t.Fatal("nil error should not be a check violation")
	}
	if !IsCheckViolation(errors.New(`CHECK constraint failed: quantity > 0`)) {
		t.Fatal("expected sqlite check violation to be detected")
	}
	if !IsCheckViolation(errors.New(`new row for relation "customer_purchases" violates check constraint "customer_purchases_quantity_check"`)) {
		t.Fatal("expected postgres check violation to be detected")
	}
	if IsCheckViolation(errors.New("duplicate key value")) {
		t.Fatal("unique violation should not be a check violation")
	}
}
