package domain

import "time"

// SaleOperation names the mutation recorded in the audit trail.
type SaleOperation string

const (
	SaleCreated SaleOperation = "created"
	SaleUpdated SaleOperation = "updated"
	SaleDeleted SaleOperation = "deleted"
)

// SaleEvent is an audit record emitted after a sale transaction commits.
type SaleEvent struct {
	ID           string
	SaleID       int64
	PropertyID   int64
	Operation    SaleOperation
	OldStatus    SaleStatus   // empty on create
	NewStatus    SaleStatus   // empty on delete
	Availability Availability // empty when the property was not touched
	ActorID      string
	OccurredAt   time.Time
}
