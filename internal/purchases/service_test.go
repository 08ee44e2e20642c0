package purchases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/andresfigueroa/salescap-backend/internal/pricecuts"
	"github.com/andresfigueroa/salescap-backend/pkg/db"
	pkgerrors "github.com/andresfigueroa/salescap-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func activeWindow() (time.Time, time.Time) {
	now := time.Now().UTC()
	return now.Add(-time.Hour), now.Add(time.Hour)
}

func TestProcessPurchaseRecordsWithinLimit(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn, 5*time.Second)
	ctx := context.Background()

	start, end := activeWindow()
	cut := mustCreatePriceCut(t, conn, 5, start, end)
	customer := uuid.New()

	purchase, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{
		PriceCutID: cut.ID,
		CustomerID: customer,
		Quantity:   3,
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if purchase.Quantity != 3 {
		t.Fatalf("unexpected quantity %d", purchase.Quantity)
	}
	if purchase.ID == uuid.Nil {
		t.Fatal("expected an assigned purchase id")
	}

	total, err := NewRepository(conn).SumQuantity(ctx, cut.ID, customer)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected ledger total 3, got %d", total)
	}
}

func TestProcessPurchaseExactlyAtLimit(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn, 5*time.Second)
	ctx := context.Background()

	start, end := activeWindow()
	cut := mustCreatePriceCut(t, conn, 5, start, end)
	customer := uuid.New()

	if _, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{PriceCutID: cut.ID, CustomerID: customer, Quantity: 3}); err != nil {
		t.Fatalf("first purchase: %v", err)
	}

	// 3 + 2 lands exactly on the cap and must be accepted.
	if _, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{PriceCutID: cut.ID, CustomerID: customer, Quantity: 2}); err != nil {
		t.Fatalf("purchase filling the cap: %v", err)
	}

	// Any further purchase exceeds the cap.
	_, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{PriceCutID: cut.ID, CustomerID: customer, Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if remaining, _ := details["remaining_allowance"].(int); remaining != 0 {
		t.Fatalf("expected remaining allowance 0, got %v", details["remaining_allowance"])
	}
}

func TestProcessPurchaseRejectsOverLimit(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn, 5*time.Second)
	ctx := context.Background()

	start, end := activeWindow()
	cut := mustCreatePriceCut(t, conn, 5, start, end)
	customer := uuid.New()

	if _, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{PriceCutID: cut.ID, CustomerID: customer, Quantity: 3}); err != nil {
		t.Fatalf("first purchase: %v", err)
	}

	_, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{PriceCutID: cut.ID, CustomerID: customer, Quantity: 3})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Rejected attempt must not append to the ledger.
	total, err := NewRepository(conn).SumQuantity(ctx, cut.ID, customer)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected ledger unchanged at 3, got %d", total)
	}

	// A different customer still has the full allowance.
	if _, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{PriceCutID: cut.ID, CustomerID: uuid.New(), Quantity: 5}); err != nil {
		t.Fatalf("other customer purchase: %v", err)
	}
}

func TestProcessPurchaseReportsRemainingAllowance(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn, 5*time.Second)
	ctx := context.Background()

	start, end := activeWindow()
	cut := mustCreatePriceCut(t, conn, 10, start, end)
	customer := uuid.New()

	if _, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{PriceCutID: cut.ID, CustomerID: customer, Quantity: 7}); err != nil {
		t.Fatalf("first purchase: %v", err)
	}

	// 7 of 10 used; asking for 5 must report the 3 still available.
	_, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{PriceCutID: cut.ID, CustomerID: customer, Quantity: 5})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if remaining, _ := details["remaining_allowance"].(int); remaining != 3 {
		t.Fatalf("expected remaining allowance 3, got %v", details["remaining_allowance"])
	}
	if maxItems, _ := details["max_items_per_customer"].(int); maxItems != 10 {
		t.Fatalf("expected max items 10, got %v", details["max_items_per_customer"])
	}
}

func TestProcessPurchaseUnknownCut(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn, 5*time.Second)

	_, err := svc.ProcessPurchase(context.Background(), ProcessPurchaseInput{
		PriceCutID: uuid.New(),
		CustomerID: uuid.New(),
		Quantity:   1,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProcessPurchaseRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn, 5*time.Second)

	for _, qty := range []int{0, -2} {
		_, err := svc.ProcessPurchase(context.Background(), ProcessPurchaseInput{
			PriceCutID: uuid.New(),
			CustomerID: uuid.New(),
			Quantity:   qty,
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("quantity %d: expected validation error, got %v", qty, err)
		}
	}
}

func newClockedService(t *testing.T, conn *gorm.DB, at time.Time) Service {
	t.Helper()
	return &service{
		dbClient:  db.NewWithConn(conn),
		cuts:      pricecuts.NewRepository(conn),
		ledger:    NewRepository(conn),
		txTimeout: 5 * time.Second,
		now:       func() time.Time { return at },
	}
}

func TestProcessPurchaseWindowEdges(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
	cut := mustCreatePriceCut(t, conn, 100, start, end)

	cases := []struct {
		name     string
		at       time.Time
		accepted bool
	}{
		{"before start", start.Add(-time.Microsecond), false},
		{"at start", start, true},
		{"inside window", start.Add(72 * time.Hour), true},
		{"at end", end, true},
		{"after end", end.Add(time.Microsecond), false},
	}

	for _, tc := range cases {
		svc := newClockedService(t, conn, tc.at)
		_, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{
			PriceCutID: cut.ID,
			CustomerID: uuid.New(),
			Quantity:   1,
		})
		if tc.accepted {
			if err != nil {
				t.Fatalf("%s: expected acceptance, got %v", tc.name, err)
			}
			continue
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("%s: expected state conflict, got %v", tc.name, err)
		}
	}
}

func TestGetCustomerStatus(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn, 5*time.Second)
	ctx := context.Background()

	start, end := activeWindow()
	cut := mustCreatePriceCut(t, conn, 5, start, end)
	customer := uuid.New()

	status, err := svc.GetCustomerStatus(ctx, customer, cut.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(status.Purchases) != 0 {
		t.Fatalf("expected no purchases yet, got %d", len(status.Purchases))
	}
	if status.PurchasedQuantity != 0 || status.RemainingAllowance != 5 {
		t.Fatalf("unexpected fresh status %+v", status)
	}
	if !status.SaleActive {
		t.Fatal("expected sale to be active")
	}

	if _, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{PriceCutID: cut.ID, CustomerID: customer, Quantity: 3}); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if _, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{PriceCutID: cut.ID, CustomerID: customer, Quantity: 1}); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	status, err = svc.GetCustomerStatus(ctx, customer, cut.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(status.Purchases) != 2 {
		t.Fatalf("expected 2 purchase rows, got %d", len(status.Purchases))
	}
	if status.Purchases[0].Quantity != 3 || status.Purchases[1].Quantity != 1 {
		t.Fatalf("unexpected purchase rows %+v", status.Purchases)
	}
	if status.Purchases[0].CustomerID != customer || status.Purchases[0].PriceCutID != cut.ID {
		t.Fatalf("purchase row carries wrong identifiers %+v", status.Purchases[0])
	}
	if status.PurchasedQuantity != 4 || status.RemainingAllowance != 1 {
		t.Fatalf("unexpected status after purchase %+v", status)
	}

	_, err = svc.GetCustomerStatus(ctx, customer, uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown cut, got %v", err)
	}
}

func TestProcessPurchaseConcurrentAttemptsNeverExceedCap(t *testing.T) {
	conn := newSerializedTestDB(t)
	svc := newTestService(t, conn, 10*time.Second)
	ctx := context.Background()

	start, end := activeWindow()
	const maxItems = 5
	cut := mustCreatePriceCut(t, conn, maxItems, start, end)
	customer := uuid.New()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, err := svc.ProcessPurchase(ctx, ProcessPurchaseInput{
				PriceCutID: cut.ID,
				CustomerID: customer,
				Quantity:   2,
			})
			errs[slot] = err
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		typed := pkgerrors.As(err)
		if typed == nil {
			t.Fatalf("unexpected untyped error: %v", err)
		}
		if typed.Code() != pkgerrors.CodeConflict && typed.Code() != pkgerrors.CodeDependency {
			t.Fatalf("unexpected rejection code %s: %v", typed.Code(), err)
		}
	}

	total, err := NewRepository(conn).SumQuantity(ctx, cut.ID, customer)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total > maxItems {
		t.Fatalf("cap violated: ledger total %d exceeds %d", total, maxItems)
	}
	if total != accepted*2 {
		t.Fatalf("ledger total %d does not match %d accepted purchases", total, accepted)
	}
}
