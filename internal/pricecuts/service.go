package pricecuts

import (
	"context"
	"fmt"
	"time"

	"github.com/andresfigueroa/salescap-backend/pkg/db"
	"github.com/andresfigueroa/salescap-backend/pkg/db/models"
	pkgerrors "github.com/andresfigueroa/salescap-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes price cut registry operations.
type Service interface {
	Create(ctx context.Context, input CreatePriceCutInput) (*PriceCutDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*PriceCutDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePriceCutInput) (*PriceCutDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]PriceCutDTO, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]PriceCutDTO, error)
}

// CreatePriceCutInput holds the validated payload to register a price cut.
type CreatePriceCutInput struct {
	ProductID           uuid.UUID
	SalePrice           decimal.Decimal
	StartDate           time.Time
	EndDate             time.Time
	MaxItemsPerCustomer int
}

// UpdatePriceCutInput holds the full replacement values for a price cut.
type UpdatePriceCutInput struct {
	ProductID           uuid.UUID
	SalePrice           decimal.Decimal
	StartDate           time.Time
	EndDate             time.Time
	MaxItemsPerCustomer int
}

// service implements the price cut registry.
type service struct {
	repo *Repository
}

// NewService constructs a price cut service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("price cut repository required")
	}
	return &service{repo: repo}, nil
}

func validateCutFields(startDate, endDate time.Time, salePrice decimal.Decimal, maxItems int) error {
	if endDate.Before(startDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "start_date must not be after end_date")
	}
	if salePrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale_price must not be negative")
	}
	if maxItems <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "max_items_per_customer must be positive")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreatePriceCutInput) (*PriceCutDTO, error) {
	if err := validateCutFields(input.StartDate, input.EndDate, input.SalePrice, input.MaxItemsPerCustomer); err != nil {
		return nil, err
	}

	cut := &models.PriceCut{
		ID:                  uuid.New(),
		ProductID:           input.ProductID,
		SalePrice:           input.SalePrice,
		StartDate:           input.StartDate,
		EndDate:             input.EndDate,
		MaxItemsPerCustomer: input.MaxItemsPerCustomer,
	}

	created, err := s.repo.Create(ctx, cut)
	if err != nil {
		return nil, db.WrapError(err, "insert price cut")
	}
	return NewPriceCutDTO(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PriceCutDTO, error) {
	cut, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.WrapError(err, "load price cut")
	}
	if cut == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price cut not found")
	}
	return NewPriceCutDTO(cut), nil
}

// Update replaces all mutable fields of an existing price cut. It never
// creates a row for an unknown ID.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdatePriceCutInput) (*PriceCutDTO, error) {
	if err := validateCutFields(input.StartDate, input.EndDate, input.SalePrice, input.MaxItemsPerCustomer); err != nil {
		return nil, err
	}

	cut, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.WrapError(err, "load price cut")
	}
	if cut == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price cut not found")
	}

	cut.ProductID = input.ProductID
	cut.SalePrice = input.SalePrice
	cut.StartDate = input.StartDate
	cut.EndDate = input.EndDate
	cut.MaxItemsPerCustomer = input.MaxItemsPerCustomer

	updated, err := s.repo.Update(ctx, cut)
	if err != nil {
		return nil, db.WrapError(err, "update price cut")
	}
	return NewPriceCutDTO(updated), nil
}

// Delete removes the price cut. Deleting an unknown ID succeeds.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.WrapError(err, "delete price cut")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]PriceCutDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.WrapError(err, "list price cuts")
	}
	return toDTOs(rows), nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]PriceCutDTO, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, db.WrapError(err, "list price cuts by product")
	}
	return toDTOs(rows), nil
}

func toDTOs(rows []models.PriceCut) []PriceCutDTO {
	dtos := make([]PriceCutDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewPriceCutDTO(&rows[i])
	}
	return dtos
}
