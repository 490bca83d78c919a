package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
	"github.com/propertyhub/backoffice/internal/pkg/metrics"
)

var _ ports.SaleTx = (*pgTx)(nil)

// WithinTx runs fn in one READ COMMITTED transaction. Row locks taken through
// the SaleTx give the isolation; deadlocks and serialization failures are
// retried. fn's own error is returned as is after rollback.
func (s *Store) WithinTx(ctx context.Context, op string, fn func(ctx context.Context, tx ports.SaleTx) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.runTx(ctx, fn)
		if err == nil || !retryable(err) || attempt == s.maxAttempts {
			break
		}

		metrics.CoordinatorTxTotal.WithLabelValues(op, "retry").Inc()
		s.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("retrying sale transaction")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
		}
	}

	if err != nil {
		metrics.CoordinatorTxTotal.WithLabelValues(op, "rollback").Inc()
		return err
	}
	metrics.CoordinatorTxTotal.WithLabelValues(op, "commit").Inc()
	return nil
}

func (s *Store) runTx(ctx context.Context, fn func(ctx context.Context, tx ports.SaleTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func retryable(err error) bool {
	if domain.IsDomain(err) {
		return false
	}
	code, _ := pgCode(err)
	return code == pgSerializationFailure || code == pgDeadlockDetected
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) LockSale(ctx context.Context, id int64) (*domain.Sale, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
	return scanSale(row)
}

func (t *pgTx) LockProperty(ctx context.Context, id int64) (*domain.Property, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1 FOR UPDATE`, id)
	return scanProperty(row)
}

func (t *pgTx) ClientExists(ctx context.Context, identityKey string) (bool, error) {
	var ok bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE identity_key = $1)`, identityKey).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check client: %w", err)
	}
	return ok, nil
}

func (t *pgTx) CountCompletedSales(ctx context.Context, propertyID, excludeSaleID int64) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM sales WHERE property_id = $1 AND status = 'completed' AND id <> $2`,
		propertyID, excludeSaleID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed sales: %w", err)
	}
	return n, nil
}

func (t *pgTx) InsertSale(ctx context.Context, sale *domain.Sale) error {
	const query = `
		INSERT INTO sales (property_id, client_id, amount, sale_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := t.tx.QueryRow(ctx, query, sale.PropertyID, sale.ClientID, sale.Amount, sale.Date, string(sale.Status)).
		Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return mapSaleWriteError("insert sale", err)
	}
	return nil
}

func (t *pgTx) UpdateSale(ctx context.Context, sale *domain.Sale) error {
	const query = `
		UPDATE sales
		SET property_id = $2, client_id = $3, amount = $4, sale_date = $5, status = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := t.tx.QueryRow(ctx, query, sale.ID, sale.PropertyID, sale.ClientID, sale.Amount, sale.Date, string(sale.Status)).
		Scan(&sale.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrSaleNotFound
	}
	if err != nil {
		return mapSaleWriteError("update sale", err)
	}
	return nil
}

func (t *pgTx) DeleteSale(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func (t *pgTx) SetAvailability(ctx context.Context, propertyID int64, a domain.Availability) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE properties SET availability = $2, updated_at = NOW() WHERE id = $1`,
		propertyID, string(a),
	)
	if err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

func mapSaleWriteError(op string, err error) error {
	code, constraint := pgCode(err)
	if code == pgNumericOutOfRange {
		return domain.ErrInvalidAmount
	}
	if code == pgForeignKeyViolation {
		switch constraint {
		case "sales_property_id_fkey":
			return domain.ErrUnknownProperty
		case "sales_client_id_fkey":
			return domain.ErrUnknownClient
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
