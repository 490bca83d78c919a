package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/propertyhub/backoffice/internal/core/ports"
)

// Ensure Store satisfies the core ports at compile time.
var (
	_ ports.Coordinator        = (*Store)(nil)
	_ ports.SaleReader         = (*Store)(nil)
	_ ports.PropertyRepository = (*Store)(nil)
	_ ports.OwnerRepository    = (*Store)(nil)
	_ ports.ClientRepository   = (*Store)(nil)
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgNumericOutOfRange    = "22003"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

type Config struct {
	URL      string
	MaxConns int32
}

// Connect opens the shared connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Store provides Postgres-backed persistence for properties, owners, clients
// and sales, and coordinates sale transactions.
type Store struct {
	pool        *pgxpool.Pool
	log         zerolog.Logger
	maxAttempts int
}

func NewStore(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{pool: pool, log: log, maxAttempts: 3}
}

// Ping is used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}
