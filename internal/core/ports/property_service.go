package ports

import (
	"context"

	"github.com/propertyhub/backoffice/internal/core/domain"
)

// PropertyRepository persists properties outside coordinated transactions.
type PropertyRepository interface {
	// CreateProperty returns domain.ErrUnknownOwner when the owner does not exist.
	CreateProperty(ctx context.Context, p *domain.Property) (*domain.Property, error)
	FindProperty(ctx context.Context, id int64) (*domain.Property, error)
	ListProperties(ctx context.Context, availability domain.Availability) ([]*domain.Property, error)
	// SetAvailability overwrites the availability unconditionally.
	SetAvailability(ctx context.Context, id int64, a domain.Availability) (*domain.Property, error)
}

// OwnerRepository persists owners.
type OwnerRepository interface {
	CreateOwner(ctx context.Context, o *domain.Owner) (*domain.Owner, error)
	FindOwner(ctx context.Context, identityKey string) (*domain.Owner, error)
	ListOwners(ctx context.Context) ([]*domain.Owner, error)
}

// ClientRepository persists clients.
type ClientRepository interface {
	CreateClient(ctx context.Context, c *domain.Client) (*domain.Client, error)
	FindClient(ctx context.Context, identityKey string) (*domain.Client, error)
	ListClients(ctx context.Context) ([]*domain.Client, error)
}

// CreatePropertyInput carries the fields of a new property.
type CreatePropertyInput struct {
	OwnerID      string
	Type         string
	Location     string
	SizeM2       float64
	Price        float64
	Condition    string
	Availability domain.Availability // empty = for_sale
}

// PropertyService covers owners, clients, properties and the administrative
// availability register.
type PropertyService interface {
	CreateOwner(ctx context.Context, o domain.Owner) (*domain.Owner, error)
	GetOwner(ctx context.Context, identityKey string) (*domain.Owner, error)
	ListOwners(ctx context.Context) ([]*domain.Owner, error)

	CreateClient(ctx context.Context, c domain.Client) (*domain.Client, error)
	GetClient(ctx context.Context, identityKey string) (*domain.Client, error)
	ListClients(ctx context.Context) ([]*domain.Client, error)

	CreateProperty(ctx context.Context, in CreatePropertyInput) (*domain.Property, error)
	GetProperty(ctx context.Context, id int64) (*domain.Property, error)
	ListProperties(ctx context.Context, availability domain.Availability) ([]*domain.Property, error)
	// Transition overwrites a property's availability. Any state may follow any state.
	Transition(ctx context.Context, id int64, a domain.Availability) (*domain.Property, error)
}
