package ports

import (
	"context"

	"github.com/propertyhub/backoffice/internal/core/domain"
)

// SaleEventRepository persists sale audit records.
type SaleEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.SaleEvent) error
}

// SaleEventPublisher hands audit records to an asynchronous writer. Publish
// must not block the caller on persistence.
type SaleEventPublisher interface {
	Publish(event domain.SaleEvent)
}
