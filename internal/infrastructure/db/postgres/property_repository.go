package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/propertyhub/backoffice/internal/core/domain"
)

const propertyColumns = `id, owner_id, type, location, size_m2, price, condition, availability, created_at, updated_at`

func (s *Store) CreateProperty(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	query := `
		INSERT INTO properties (owner_id, type, location, size_m2, price, condition, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + propertyColumns
	row := s.pool.QueryRow(ctx, query, p.OwnerID, p.Type, p.Location, p.SizeM2, p.Price, p.Condition, string(p.Availability))
	created, err := scanProperty(row)
	if err != nil {
		switch code, _ := pgCode(err); code {
		case pgForeignKeyViolation:
			return nil, domain.ErrUnknownOwner
		case pgNumericOutOfRange:
			return nil, domain.ErrInvalidPrice
		}
		return nil, err
	}
	return created, nil
}

func (s *Store) FindProperty(ctx context.Context, id int64) (*domain.Property, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	return scanProperty(row)
}

func (s *Store) ListProperties(ctx context.Context, availability domain.Availability) ([]*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties`
	var args []any
	if availability != "" {
		query += ` WHERE availability = $1`
		args = append(args, string(availability))
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	props := make([]*domain.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return props, nil
}

// SetAvailability is the administrative overwrite used outside sale
// transactions. It still takes the row lock implicitly through UPDATE.
func (s *Store) SetAvailability(ctx context.Context, id int64, a domain.Availability) (*domain.Property, error) {
	query := `
		UPDATE properties SET availability = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + propertyColumns
	return scanProperty(s.pool.QueryRow(ctx, query, id, string(a)))
}

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var (
		p            domain.Property
		availability string
	)
	err := row.Scan(&p.ID, &p.OwnerID, &p.Type, &p.Location, &p.SizeM2, &p.Price, &p.Condition, &availability, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("scan property: %w", err)
	}
	p.Availability = domain.Availability(availability)
	return &p, nil
}
