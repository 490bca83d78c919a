package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
)

const saleColumns = `id, property_id, client_id, amount, sale_date, status, created_at, updated_at`

func (s *Store) FindSale(ctx context.Context, id int64) (*domain.Sale, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	return scanSale(row)
}

func (s *Store) ListSales(ctx context.Context, filter ports.ListSalesFilter) ([]*domain.Sale, error) {
	var (
		where []string
		args  []any
	)
	if filter.PropertyID != 0 {
		args = append(args, filter.PropertyID)
		where = append(where, fmt.Sprintf("property_id = $%d", len(args)))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		where = append(where, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + saleColumns + ` FROM sales`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales := make([]*domain.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var (
		sale   domain.Sale
		status string
	)
	err := row.Scan(&sale.ID, &sale.PropertyID, &sale.ClientID, &sale.Amount, &sale.Date, &status, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSaleNotFound
		}
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	sale.Status = domain.SaleStatus(status)
	return &sale, nil
}
