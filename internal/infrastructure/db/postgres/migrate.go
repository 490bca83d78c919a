package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema when missing. Statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS owners (
			identity_key TEXT PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS clients (
			identity_key TEXT PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS properties (
			id BIGSERIAL PRIMARY KEY,
			owner_id TEXT NOT NULL REFERENCES owners(identity_key) ON DELETE RESTRICT,
			type TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			size_m2 DOUBLE PRECISION NOT NULL DEFAULT 0,
			price NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
			condition TEXT NOT NULL DEFAULT '',
			availability TEXT NOT NULL DEFAULT 'for_sale'
				CHECK (availability IN ('for_sale', 'for_rent', 'negotiating', 'sold', 'rented')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS sales (
			id BIGSERIAL PRIMARY KEY,
			property_id BIGINT NOT NULL REFERENCES properties(id) ON DELETE RESTRICT,
			client_id TEXT NOT NULL REFERENCES clients(identity_key) ON DELETE RESTRICT,
			amount NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (amount >= 0),
			sale_date DATE NOT NULL DEFAULT CURRENT_DATE,
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'in_progress', 'completed', 'cancelled')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS properties_owner_idx ON properties (owner_id);`,
		`CREATE INDEX IF NOT EXISTS properties_availability_idx ON properties (availability);`,
		`CREATE INDEX IF NOT EXISTS sales_property_idx ON sales (property_id);`,
		`CREATE INDEX IF NOT EXISTS sales_client_idx ON sales (client_id);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}
