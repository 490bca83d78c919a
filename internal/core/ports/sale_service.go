package ports

import (
	"context"
	"time"

	"github.com/propertyhub/backoffice/internal/core/domain"
)

// SaleReader serves non-transactional sale reads.
type SaleReader interface {
	FindSale(ctx context.Context, id int64) (*domain.Sale, error)
	ListSales(ctx context.Context, filter ListSalesFilter) ([]*domain.Sale, error)
}

// ListSalesFilter narrows ListSales. Zero values mean no filter.
type ListSalesFilter struct {
	PropertyID int64
	ClientID   string
	Status     domain.SaleStatus
}

// CreateSaleInput carries all data needed to open a sale.
type CreateSaleInput struct {
	PropertyID int64
	ClientID   string
	Amount     float64
	Date       time.Time         // zero = today (UTC)
	Status     domain.SaleStatus // empty = pending
	ActorID    string
	// IdempotencyKey, when set, makes retried creations return the first sale.
	IdempotencyKey string
}

// UpdateSaleInput carries a partial sale update.
type UpdateSaleInput struct {
	ID      int64
	Patch   domain.SalePatch
	ActorID string
}

// SaleResult is returned by create and update.
type SaleResult struct {
	Sale           *domain.Sale
	PreviousStatus domain.SaleStatus
	Effect         domain.Effect
	// AlreadyExisted is true when the Idempotency-Key matched an earlier sale.
	AlreadyExisted bool
}

// SaleService defines the sale lifecycle use cases.
type SaleService interface {
	CreateSale(ctx context.Context, in CreateSaleInput) (*SaleResult, error)
	UpdateSale(ctx context.Context, in UpdateSaleInput) (*SaleResult, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SaleStatus, actorID string) (*SaleResult, error)
	// DeleteSale reports false, with no error and no writes, when the sale does not exist.
	DeleteSale(ctx context.Context, id int64, actorID string) (bool, error)
	GetSale(ctx context.Context, id int64) (*domain.Sale, error)
	ListSales(ctx context.Context, filter ListSalesFilter) ([]*domain.Sale, error)
}
