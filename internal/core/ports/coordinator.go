package ports

import (
	"context"

	"github.com/propertyhub/backoffice/internal/core/domain"
)

// SaleTx is the set of reads and writes available inside one coordinated
// transaction. Lock* methods take a row lock held until commit or rollback.
type SaleTx interface {
	// LockSale returns domain.ErrSaleNotFound when the sale does not exist.
	LockSale(ctx context.Context, id int64) (*domain.Sale, error)
	// LockProperty returns domain.ErrPropertyNotFound when the property does not exist.
	LockProperty(ctx context.Context, id int64) (*domain.Property, error)
	ClientExists(ctx context.Context, identityKey string) (bool, error)
	// CountCompletedSales counts completed sales of a property, ignoring excludeSaleID.
	CountCompletedSales(ctx context.Context, propertyID, excludeSaleID int64) (int, error)
	// InsertSale assigns ID and timestamps on success.
	InsertSale(ctx context.Context, sale *domain.Sale) error
	UpdateSale(ctx context.Context, sale *domain.Sale) error
	DeleteSale(ctx context.Context, id int64) error
	SetAvailability(ctx context.Context, propertyID int64, a domain.Availability) error
}

// Coordinator runs fn inside a single transactional boundary: either every
// write fn performs is committed, or none is. The error returned by fn is
// returned unchanged after rollback.
type Coordinator interface {
	WithinTx(ctx context.Context, op string, fn func(ctx context.Context, tx SaleTx) error) error
}
