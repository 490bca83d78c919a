package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
	"github.com/propertyhub/backoffice/internal/pkg/metrics"
)

// IdempotencyStore abstracts the idempotency key store (Redis).
//
// Reserve claims key atomically. When the key is already claimed it reports
// the sale the key produced, or a zero id while the first request is still
// in flight. A reservation ends with Complete on commit or Release on failure.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (saleID int64, reserved bool, err error)
	Complete(ctx context.Context, key string, saleID int64) error
	Release(ctx context.Context, key string) error
}

// SaleService owns the sale state machine and drives property availability
// as a side effect, always inside one coordinated transaction.
type SaleService struct {
	coord  ports.Coordinator
	sales  ports.SaleReader
	events ports.SaleEventPublisher
	idem   IdempotencyStore
	log    zerolog.Logger
	now    func() time.Time
}

// NewSaleService returns a SaleService. events and idem may be nil.
func NewSaleService(
	coord ports.Coordinator,
	sales ports.SaleReader,
	events ports.SaleEventPublisher,
	idem IdempotencyStore,
	log zerolog.Logger,
) *SaleService {
	return &SaleService{
		coord:  coord,
		sales:  sales,
		events: events,
		idem:   idem,
		log:    log,
		now:    time.Now,
	}
}

// CreateSale opens a sale. A property in the sold state rejects new sales;
// opening directly as completed marks the property sold.
func (s *SaleService) CreateSale(ctx context.Context, in ports.CreateSaleInput) (*ports.SaleResult, error) {
	status := in.Status
	if status == "" {
		status = domain.SaleStatusPending
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if !domain.ValidMoney(in.Amount) {
		return nil, domain.ErrInvalidAmount
	}
	date := in.Date
	if date.IsZero() {
		date = s.now().UTC().Truncate(24 * time.Hour)
	}

	sale := &domain.Sale{
		PropertyID: in.PropertyID,
		ClientID:   in.ClientID,
		Amount:     in.Amount,
		Date:       date,
		Status:     status,
	}
	effect := domain.CreateEffect(status)

	replay, held, err := s.claim(ctx, in.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if replay != nil {
		return replay, nil
	}

	err = s.coord.WithinTx(ctx, "create", func(ctx context.Context, tx ports.SaleTx) error {
		prop, err := lockReferencedProperty(ctx, tx, sale.PropertyID)
		if err != nil {
			return err
		}
		if err := requireClient(ctx, tx, sale.ClientID); err != nil {
			return err
		}
		if !prop.Availability.AcceptsNewSale() {
			return domain.ErrPropertyAlreadySold
		}
		if err := ensureSoleCompletion(ctx, tx, effect, sale.PropertyID, 0); err != nil {
			return err
		}
		if err := tx.InsertSale(ctx, sale); err != nil {
			return err
		}
		return applyEffect(ctx, tx, sale.PropertyID, effect)
	})
	if err != nil {
		if held {
			s.release(ctx, in.IdempotencyKey)
		}
		return nil, err
	}

	s.committed(domain.SaleCreated, sale, "", effect, in.ActorID)
	if held {
		s.complete(ctx, in.IdempotencyKey, sale.ID)
	}

	return &ports.SaleResult{Sale: sale, Effect: effect}, nil
}

// UpdateSale applies a partial update. The prior status is read under the
// transaction's row lock so the effect is computed from the committed state.
func (s *SaleService) UpdateSale(ctx context.Context, in ports.UpdateSaleInput) (*ports.SaleResult, error) {
	if in.Patch.Status != nil && !in.Patch.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if in.Patch.Amount != nil && !domain.ValidMoney(*in.Patch.Amount) {
		return nil, domain.ErrInvalidAmount
	}

	var (
		before  domain.SaleStatus
		updated domain.Sale
		effect  domain.Effect
	)
	err := s.coord.WithinTx(ctx, "update", func(ctx context.Context, tx ports.SaleTx) error {
		current, err := tx.LockSale(ctx, in.ID)
		if err != nil {
			return err
		}
		before = current.Status
		updated = current.Apply(in.Patch)
		moved := updated.PropertyID != current.PropertyID

		// A completed sale moved elsewhere releases its old property.
		if moved && before == domain.SaleStatusCompleted {
			if _, err := tx.LockProperty(ctx, current.PropertyID); err != nil {
				return err
			}
			if err := applyEffect(ctx, tx, current.PropertyID, domain.EffectRevertForSale); err != nil {
				return err
			}
		}

		prop, err := lockReferencedProperty(ctx, tx, updated.PropertyID)
		if err != nil {
			return err
		}
		if moved && !prop.Availability.AcceptsNewSale() {
			return domain.ErrPropertyAlreadySold
		}
		if updated.ClientID != current.ClientID {
			if err := requireClient(ctx, tx, updated.ClientID); err != nil {
				return err
			}
		}

		effect = domain.StatusEffect(before, updated.Status)
		if moved {
			effect = domain.CreateEffect(updated.Status)
		}
		if err := ensureSoleCompletion(ctx, tx, effect, updated.PropertyID, updated.ID); err != nil {
			return err
		}
		if err := tx.UpdateSale(ctx, &updated); err != nil {
			return err
		}
		return applyEffect(ctx, tx, updated.PropertyID, effect)
	})
	if err != nil {
		return nil, err
	}

	s.committed(domain.SaleUpdated, &updated, before, effect, in.ActorID)
	return &ports.SaleResult{Sale: &updated, PreviousStatus: before, Effect: effect}, nil
}

func (s *SaleService) UpdateStatus(ctx context.Context, id int64, status domain.SaleStatus, actorID string) (*ports.SaleResult, error) {
	return s.UpdateSale(ctx, ports.UpdateSaleInput{
		ID:      id,
		Patch:   domain.SalePatch{Status: &status},
		ActorID: actorID,
	})
}

// DeleteSale removes a sale, reverting the property to for_sale first when
// the sale was completed.
func (s *SaleService) DeleteSale(ctx context.Context, id int64, actorID string) (bool, error) {
	var (
		removed domain.Sale
		effect  domain.Effect
		found   bool
	)
	err := s.coord.WithinTx(ctx, "delete", func(ctx context.Context, tx ports.SaleTx) error {
		current, err := tx.LockSale(ctx, id)
		if errors.Is(err, domain.ErrSaleNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		removed = *current

		effect = domain.DeleteEffect(current.Status)
		if effect != domain.EffectNone {
			if _, err := tx.LockProperty(ctx, current.PropertyID); err != nil {
				return err
			}
			if err := applyEffect(ctx, tx, current.PropertyID, effect); err != nil {
				return err
			}
		}
		return tx.DeleteSale(ctx, id)
	})
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	s.committed(domain.SaleDeleted, &removed, removed.Status, effect, actorID)
	return true, nil
}

func (s *SaleService) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	return s.sales.FindSale(ctx, id)
}

func (s *SaleService) ListSales(ctx context.Context, filter ports.ListSalesFilter) ([]*domain.Sale, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.sales.ListSales(ctx, filter)
}

// lockReferencedProperty maps a missing property to a validation error: the
// caller referenced it, it is not the resource being addressed.
func lockReferencedProperty(ctx context.Context, tx ports.SaleTx, id int64) (*domain.Property, error) {
	prop, err := tx.LockProperty(ctx, id)
	if errors.Is(err, domain.ErrPropertyNotFound) {
		return nil, domain.ErrUnknownProperty
	}
	return prop, err
}

func requireClient(ctx context.Context, tx ports.SaleTx, clientID string) error {
	ok, err := tx.ClientExists(ctx, clientID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnknownClient
	}
	return nil
}

// ensureSoleCompletion keeps at most one completed sale per property.
func ensureSoleCompletion(ctx context.Context, tx ports.SaleTx, effect domain.Effect, propertyID, saleID int64) error {
	if effect != domain.EffectMarkSold {
		return nil
	}
	n, err := tx.CountCompletedSales(ctx, propertyID, saleID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrPropertyAlreadySold
	}
	return nil
}

func applyEffect(ctx context.Context, tx ports.SaleTx, propertyID int64, effect domain.Effect) error {
	target, ok := effect.Target()
	if !ok {
		return nil
	}
	return tx.SetAvailability(ctx, propertyID, target)
}

// claim reserves key ahead of the transaction. It returns the earlier result
// when key already produced a sale, and held when the caller owns the
// reservation and must complete or release it. A store failure degrades to a
// plain create.
func (s *SaleService) claim(ctx context.Context, key string) (replay *ports.SaleResult, held bool, err error) {
	if key == "" || s.idem == nil {
		return nil, false, nil
	}
	id, reserved, err := s.idem.Reserve(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency reservation failed, creating anyway")
		return nil, false, nil
	}
	if reserved {
		return nil, true, nil
	}
	if id == 0 {
		return nil, false, domain.ErrIdempotencyInProgress
	}
	sale, err := s.sales.FindSale(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("sale_id", id).Msg("idempotent sale no longer readable, creating anyway")
		return nil, true, nil
	}
	s.log.Info().Str("idempotency_key", key).Int64("sale_id", id).Msg("idempotent replay")
	return &ports.SaleResult{Sale: sale, PreviousStatus: sale.Status, AlreadyExisted: true}, false, nil
}

// complete and release run after the request outcome is known, so they must
// not be cut short by a cancelled request context.
func (s *SaleService) complete(ctx context.Context, key string, saleID int64) {
	if err := s.idem.Complete(context.WithoutCancel(ctx), key, saleID); err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotency key")
	}
}

func (s *SaleService) release(ctx context.Context, key string) {
	if err := s.idem.Release(context.WithoutCancel(ctx), key); err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

// committed records metrics, logs and publishes the audit event of a
// committed operation.
func (s *SaleService) committed(op domain.SaleOperation, sale *domain.Sale, from domain.SaleStatus, effect domain.Effect, actorID string) {
	to := string(sale.Status)
	if op == domain.SaleDeleted {
		to = "deleted"
	}
	if op != domain.SaleUpdated || from != sale.Status {
		metrics.SaleTransitionsTotal.WithLabelValues(string(from), to).Inc()
	}

	event := domain.SaleEvent{
		ID:         uuid.NewString(),
		SaleID:     sale.ID,
		PropertyID: sale.PropertyID,
		Operation:  op,
		OldStatus:  from,
		ActorID:    actorID,
		OccurredAt: s.now().UTC(),
	}
	if op != domain.SaleDeleted {
		event.NewStatus = sale.Status
	}
	if target, ok := effect.Target(); ok {
		event.Availability = target
		metrics.AvailabilityChangesTotal.WithLabelValues(string(target), "sale").Inc()
	}

	s.log.Info().
		Str("operation", string(op)).
		Int64("sale_id", sale.ID).
		Int64("property_id", sale.PropertyID).
		Str("from", string(from)).
		Str("to", to).
		Str("effect", effect.String()).
		Msg("sale committed")

	if s.events != nil {
		s.events.Publish(event)
	}
}
