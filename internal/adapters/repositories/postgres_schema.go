package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the PostgreSQL schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createVisitsQuery := `
	CREATE TABLE IF NOT EXISTS customer_visits (
		visit_id TEXT PRIMARY KEY,
		visit_date DATE NOT NULL,
		salesman_code TEXT NOT NULL,
		salesman_name TEXT,
		route_code TEXT,
		route_name TEXT,
		customer_code TEXT NOT NULL,
		customer_name TEXT,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		arrival_time TIMESTAMPTZ,
		departure_time TIMESTAMPTZ,
		duration_minutes INTEGER,
		is_productive BOOLEAN NOT NULL DEFAULT FALSE,
		visit_type TEXT,
		order_value NUMERIC(14, 2)
	);
	`

	createTransactionsQuery := `
	CREATE TABLE IF NOT EXISTS sales_transactions (
		trx_code TEXT PRIMARY KEY,
		trx_date TIMESTAMPTZ NOT NULL,
		trx_date_only DATE NOT NULL,
		trx_type TEXT NOT NULL DEFAULT 'SALE',
		salesman_code TEXT NOT NULL,
		salesman_name TEXT,
		route_code TEXT,
		route_name TEXT,
		customer_code TEXT NOT NULL,
		total_amount NUMERIC(14, 2) NOT NULL
	);
	`

	createPurchaseOrdersQuery := `
	CREATE TABLE IF NOT EXISTS purchase_order_lines (
		line_id BIGSERIAL PRIMARY KEY,
		trx_code TEXT NOT NULL,
		po_number TEXT,
		po_date DATE NOT NULL,
		po_created_at TIMESTAMPTZ,
		po_status TEXT,
		user_code TEXT,
		user_name TEXT,
		team_leader_code TEXT,
		team_leader_name TEXT,
		store_code TEXT,
		store_name TEXT,
		chain_code TEXT,
		chain_name TEXT,
		total_amount NUMERIC(14, 2),
		product_code TEXT,
		product_name TEXT,
		product_category TEXT,
		quantity NUMERIC(14, 3),
		received_quantity NUMERIC(14, 3),
		pending_quantity NUMERIC(14, 3),
		unit_price NUMERIC(14, 2),
		line_amount NUMERIC(14, 2),
		delivery_status TEXT,
		image_path TEXT,
		UNIQUE (trx_code, product_code)
	);
	`

	createIndexQueries := []string{
		`CREATE INDEX IF NOT EXISTS idx_customer_visits_date_salesman
		ON customer_visits(visit_date, salesman_code, arrival_time);`,
		`CREATE INDEX IF NOT EXISTS idx_sales_transactions_date_route
		ON sales_transactions(trx_date_only, route_code);`,
		`CREATE INDEX IF NOT EXISTS idx_purchase_order_lines_date
		ON purchase_order_lines(po_date, user_code, store_code);`,
	}

	statements := append([]string{
		createVisitsQuery,
		createTransactionsQuery,
		createPurchaseOrdersQuery,
	}, createIndexQueries...)

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
