package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"fmt"
)

// PostgreSQL-backed implementation of the TransactionRepository port.
type PostgresTransactionRepository struct{ DB *sql.DB }

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{DB: db}
}

// ListTransactions returns sale transactions in the date range.
func (r *PostgresTransactionRepository) ListTransactions(ctx context.Context, f ports.TransactionFilter) (_ []domain.Transaction, err error) {
	defer obs.Time(ctx, "transactions.List")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres transaction repository: DB is nil")
	}

	if f.From.IsZero() || f.To.IsZero() || f.From.After(f.To) {
		return nil, fmt.Errorf("list transactions: %w: date range %s..%s", ports.ErrInvalidFilter,
			f.From.Format(sqlDate), f.To.Format(sqlDate))
	}

	query := `
	SELECT
		trx_code,
		trx_date,
		salesman_code,
		COALESCE(salesman_name, salesman_code),
		COALESCE(route_code, ''),
		COALESCE(route_name, ''),
		customer_code,
		total_amount::float8
	FROM sales_transactions
	WHERE trx_type = 'SALE'
		AND trx_date_only BETWEEN $1::date AND $2::date
		AND ($3 = '' OR route_code = $3)
	ORDER BY trx_date, trx_code;
	`

	rows, err := r.DB.QueryContext(ctx, query, f.From.Format(sqlDate), f.To.Format(sqlDate), normalizeCode(f.RouteCode))
	if err != nil {
		return nil, fmt.Errorf("list transactions: query sales_transactions table: %w", err)
	}
	defer rows.Close()

	trx := make([]domain.Transaction, 0, 256)
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(
			&t.TrxCode,
			&t.TrxDate,
			&t.SalesmanCode,
			&t.SalesmanName,
			&t.RouteCode,
			&t.RouteName,
			&t.CustomerCode,
			&t.TotalAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("list transactions: scan row: %w", err)
		}
		trx = append(trx, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: row iteration: %w", err)
	}

	return trx, nil
}
