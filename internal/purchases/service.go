package purchases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andresfigueroa/salescap-backend/internal/pricecuts"
	"github.com/andresfigueroa/salescap-backend/pkg/db"
	"github.com/andresfigueroa/salescap-backend/pkg/db/models"
	pkgerrors "github.com/andresfigueroa/salescap-backend/pkg/errors"
	"github.com/andresfigueroa/salescap-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	rejectNotFound      = "price_cut_not_found"
	rejectSaleInactive  = "sale_not_active"
	rejectLimitExceeded = "limit_exceeded"
	rejectTimeout       = "timeout"
	rejectInternal      = "internal"
)

// Service exposes the purchase eligibility engine.
type Service interface {
	ProcessPurchase(ctx context.Context, input ProcessPurchaseInput) (*PurchaseDTO, error)
	GetCustomerStatus(ctx context.Context, customerID, priceCutID uuid.UUID) (*CustomerStatusDTO, error)
}

// ProcessPurchaseInput holds the validated payload for one purchase attempt.
type ProcessPurchaseInput struct {
	PriceCutID uuid.UUID
	CustomerID uuid.UUID
	Quantity   int
}

// service implements the purchase engine.
type service struct {
	dbClient  *db.Client
	cuts      *pricecuts.Repository
	ledger    *Repository
	metrics   *metrics.PurchaseMetrics
	txTimeout time.Duration
	now       func() time.Time
}

// NewService constructs a purchase service instance.
func NewService(dbClient *db.Client, cuts *pricecuts.Repository, ledger *Repository, m *metrics.PurchaseMetrics, txTimeout time.Duration) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if cuts == nil {
		return nil, fmt.Errorf("price cut repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("purchase ledger required")
	}
	if txTimeout <= 0 {
		return nil, fmt.Errorf("transaction timeout must be positive")
	}
	return &service{
		dbClient:  dbClient,
		cuts:      cuts,
		ledger:    ledger,
		metrics:   m,
		txTimeout: txTimeout,
		now:       time.Now,
	}, nil
}

// ProcessPurchase checks sale activity and the per-customer cap, then records
// the purchase. The lookup, the sum, and the insert run as one transaction
// with the price cut row locked, so two concurrent attempts against the same
// cut cannot both pass the limit check.
func (s *service) ProcessPurchase(ctx context.Context, input ProcessPurchaseInput) (*PurchaseDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	started := s.now()
	var recorded *models.CustomerPurchase

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		cut, err := s.cuts.WithTx(tx).FindByIDForUpdate(ctx, input.PriceCutID)
		if err != nil {
			return db.WrapError(err, "load price cut")
		}
		if cut == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "price cut not found")
		}

		now := s.now().UTC()
		if now.Before(cut.StartDate) || now.After(cut.EndDate) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "price cut is not active").
				WithDetails(map[string]any{
					"start_date": cut.StartDate,
					"end_date":   cut.EndDate,
				})
		}

		purchased, err := s.ledger.WithTx(tx).SumQuantity(ctx, input.PriceCutID, input.CustomerID)
		if err != nil {
			return db.WrapError(err, "sum customer purchases")
		}

		remaining := cut.MaxItemsPerCustomer - purchased
		if input.Quantity > remaining {
			if remaining < 0 {
				remaining = 0
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "purchase exceeds per-customer limit").
				WithDetails(map[string]any{
					"remaining_allowance":    remaining,
					"max_items_per_customer": cut.MaxItemsPerCustomer,
				})
		}

		purchase := &models.CustomerPurchase{
			ID:           uuid.New(),
			PriceCutID:   input.PriceCutID,
			CustomerID:   input.CustomerID,
			Quantity:     input.Quantity,
			PurchaseDate: now,
		}
		recorded, err = s.ledger.WithTx(tx).Append(ctx, purchase)
		if err != nil {
			return db.WrapError(err, "record purchase")
		}
		return nil
	})

	elapsed := s.now().Sub(started)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.metrics.IncRejected(rejectTimeout)
			s.metrics.ObserveDuration(rejectTimeout, elapsed)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purchase transaction timed out")
		}
		reason := rejectReason(err)
		s.metrics.IncRejected(reason)
		s.metrics.ObserveDuration(reason, elapsed)
		return nil, err
	}

	s.metrics.IncAccepted()
	s.metrics.ObserveDuration("accepted", elapsed)
	return NewPurchaseDTO(recorded), nil
}

// GetCustomerStatus returns a customer's purchases against one price cut and
// their aggregate standing. It reads without locking, so the answer is
// advisory only.
func (s *service) GetCustomerStatus(ctx context.Context, customerID, priceCutID uuid.UUID) (*CustomerStatusDTO, error) {
	cut, err := s.cuts.FindByID(ctx, priceCutID)
	if err != nil {
		return nil, db.WrapError(err, "load price cut")
	}
	if cut == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price cut not found")
	}

	rows, err := s.ledger.ListForCustomer(ctx, priceCutID, customerID)
	if err != nil {
		return nil, db.WrapError(err, "list customer purchases")
	}

	purchased := 0
	for i := range rows {
		purchased += rows[i].Quantity
	}

	remaining := cut.MaxItemsPerCustomer - purchased
	if remaining < 0 {
		remaining = 0
	}

	now := s.now().UTC()
	return &CustomerStatusDTO{
		PriceCutID:          priceCutID,
		CustomerID:          customerID,
		Purchases:           NewPurchaseDTOs(rows),
		PurchasedQuantity:   purchased,
		RemainingAllowance:  remaining,
		MaxItemsPerCustomer: cut.MaxItemsPerCustomer,
		SaleActive:          !now.Before(cut.StartDate) && !now.After(cut.EndDate),
	}, nil
}

func rejectReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return rejectInternal
	}
	switch typed.Code() {
	case pkgerrors.CodeNotFound:
		return rejectNotFound
	case pkgerrors.CodeStateConflict:
		return rejectSaleInactive
	case pkgerrors.CodeConflict:
		return rejectLimitExceeded
	default:
		return rejectInternal
	}
}
