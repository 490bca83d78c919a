package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
	"github.com/propertyhub/backoffice/internal/pkg/metrics"
)

// PropertyService manages owners, clients and properties, and exposes the
// administrative side of the availability register.
type PropertyService struct {
	properties ports.PropertyRepository
	owners     ports.OwnerRepository
	clients    ports.ClientRepository
	log        zerolog.Logger
}

func NewPropertyService(
	properties ports.PropertyRepository,
	owners ports.OwnerRepository,
	clients ports.ClientRepository,
	log zerolog.Logger,
) *PropertyService {
	return &PropertyService{properties: properties, owners: owners, clients: clients, log: log}
}

func (s *PropertyService) CreateOwner(ctx context.Context, o domain.Owner) (*domain.Owner, error) {
	o.IdentityKey = strings.TrimSpace(o.IdentityKey)
	if o.IdentityKey == "" {
		return nil, domain.ErrInvalidIdentityKey
	}
	return s.owners.CreateOwner(ctx, &o)
}

func (s *PropertyService) GetOwner(ctx context.Context, identityKey string) (*domain.Owner, error) {
	return s.owners.FindOwner(ctx, identityKey)
}

func (s *PropertyService) ListOwners(ctx context.Context) ([]*domain.Owner, error) {
	return s.owners.ListOwners(ctx)
}

func (s *PropertyService) CreateClient(ctx context.Context, c domain.Client) (*domain.Client, error) {
	c.IdentityKey = strings.TrimSpace(c.IdentityKey)
	if c.IdentityKey == "" {
		return nil, domain.ErrInvalidIdentityKey
	}
	return s.clients.CreateClient(ctx, &c)
}

func (s *PropertyService) GetClient(ctx context.Context, identityKey string) (*domain.Client, error) {
	return s.clients.FindClient(ctx, identityKey)
}

func (s *PropertyService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.clients.ListClients(ctx)
}

func (s *PropertyService) CreateProperty(ctx context.Context, in ports.CreatePropertyInput) (*domain.Property, error) {
	availability := in.Availability
	if availability == "" {
		availability = domain.AvailabilityForSale
	}
	if !availability.Valid() {
		return nil, domain.ErrInvalidAvailability
	}
	if !domain.ValidMoney(in.Price) {
		return nil, domain.ErrInvalidPrice
	}

	created, err := s.properties.CreateProperty(ctx, &domain.Property{
		OwnerID:      in.OwnerID,
		Type:         in.Type,
		Location:     in.Location,
		SizeM2:       in.SizeM2,
		Price:        in.Price,
		Condition:    in.Condition,
		Availability: availability,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("property_id", created.ID).Str("owner_id", created.OwnerID).Msg("property created")
	return created, nil
}

func (s *PropertyService) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	return s.properties.FindProperty(ctx, id)
}

func (s *PropertyService) ListProperties(ctx context.Context, availability domain.Availability) ([]*domain.Property, error) {
	if availability != "" && !availability.Valid() {
		return nil, domain.ErrInvalidAvailability
	}
	return s.properties.ListProperties(ctx, availability)
}

// Transition is the direct administrative edit of the register. It is always
// allowed and bypasses the sale engine.
func (s *PropertyService) Transition(ctx context.Context, id int64, a domain.Availability) (*domain.Property, error) {
	if !a.Valid() {
		return nil, domain.ErrInvalidAvailability
	}
	p, err := s.properties.SetAvailability(ctx, id, a)
	if err != nil {
		return nil, err
	}

	metrics.AvailabilityChangesTotal.WithLabelValues(string(a), "admin").Inc()
	s.log.Info().Int64("property_id", id).Str("availability", string(a)).Msg("property availability overwritten")
	return p, nil
}
