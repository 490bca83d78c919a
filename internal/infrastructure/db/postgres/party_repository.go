package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/propertyhub/backoffice/internal/core/domain"
)

// Owners and clients share one row shape keyed by identity key.

type party struct {
	IdentityKey string
	FullName    string
	Email       string
	Phone       string
}

func (s *Store) CreateOwner(ctx context.Context, o *domain.Owner) (*domain.Owner, error) {
	created, err := s.insertParty(ctx, "owners", party{o.IdentityKey, o.FullName, o.Email, o.Phone}, domain.ErrOwnerExists)
	if err != nil {
		return nil, err
	}
	o.CreatedAt = created
	return o, nil
}

func (s *Store) FindOwner(ctx context.Context, identityKey string) (*domain.Owner, error) {
	var o domain.Owner
	err := s.pool.QueryRow(ctx,
		`SELECT identity_key, full_name, email, phone, created_at FROM owners WHERE identity_key = $1`, identityKey,
	).Scan(&o.IdentityKey, &o.FullName, &o.Email, &o.Phone, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find owner: %w", err)
	}
	return &o, nil
}

func (s *Store) ListOwners(ctx context.Context) ([]*domain.Owner, error) {
	rows, err := s.pool.Query(ctx, `SELECT identity_key, full_name, email, phone, created_at FROM owners ORDER BY identity_key`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	owners := make([]*domain.Owner, 0)
	for rows.Next() {
		var o domain.Owner
		if err := rows.Scan(&o.IdentityKey, &o.FullName, &o.Email, &o.Phone, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, &o)
	}
	return owners, rows.Err()
}

func (s *Store) CreateClient(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	created, err := s.insertParty(ctx, "clients", party{c.IdentityKey, c.FullName, c.Email, c.Phone}, domain.ErrClientExists)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = created
	return c, nil
}

func (s *Store) FindClient(ctx context.Context, identityKey string) (*domain.Client, error) {
	var c domain.Client
	err := s.pool.QueryRow(ctx,
		`SELECT identity_key, full_name, email, phone, created_at FROM clients WHERE identity_key = $1`, identityKey,
	).Scan(&c.IdentityKey, &c.FullName, &c.Email, &c.Phone, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}
	return &c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]*domain.Client, error) {
	rows, err := s.pool.Query(ctx, `SELECT identity_key, full_name, email, phone, created_at FROM clients ORDER BY identity_key`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.IdentityKey, &c.FullName, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

// insertParty writes into table, mapping a primary key clash to exists.
// table is never caller supplied.
func (s *Store) insertParty(ctx context.Context, table string, p party, exists error) (createdAt time.Time, err error) {
	query := `INSERT INTO ` + table + ` (identity_key, full_name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`
	err = s.pool.QueryRow(ctx, query, p.IdentityKey, p.FullName, p.Email, p.Phone).Scan(&createdAt)
	if err != nil {
		if code, _ := pgCode(err); code == pgUniqueViolation {
			return createdAt, exists
		}
		return createdAt, fmt.Errorf("insert into %s: %w", table, err)
	}
	return createdAt, nil
}
