package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"fmt"
	"strings"
)

// PostgreSQL-backed implementation of the PurchaseOrderRepository port.
type PostgresPurchaseOrderRepository struct{ DB *sql.DB }

func NewPostgresPurchaseOrderRepository(db *sql.DB) *PostgresPurchaseOrderRepository {
	return &PostgresPurchaseOrderRepository{DB: db}
}

// ListPurchaseOrders returns PO lines matching f, newest first, capped at f.Limit.
func (r *PostgresPurchaseOrderRepository) ListPurchaseOrders(ctx context.Context, f ports.PurchaseOrderFilter) (_ []domain.PurchaseOrderLine, err error) {
	defer obs.Time(ctx, "purchaseOrders.List")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres purchase order repository: DB is nil")
	}

	if f.StartDate.IsZero() || f.EndDate.IsZero() || f.Limit <= 0 {
		return nil, fmt.Errorf("list purchase orders: %w: dates and limit are required", ports.ErrInvalidFilter)
	}

	query, args := buildPurchaseOrderQuery(f)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: query purchase_order_lines table: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.PurchaseOrderLine, 0, 256)
	for rows.Next() {
		var (
			l         domain.PurchaseOrderLine
			createdAt sql.NullTime
		)
		err := rows.Scan(
			&l.PODate,
			&createdAt,
			&l.UserCode,
			&l.UserName,
			&l.TeamLeaderCode,
			&l.TeamLeaderName,
			&l.StoreCode,
			&l.StoreName,
			&l.ChainCode,
			&l.ChainName,
			&l.TrxCode,
			&l.PONumber,
			&l.POStatus,
			&l.TotalAmount,
			&l.ProductCode,
			&l.ProductName,
			&l.ProductCategory,
			&l.Quantity,
			&l.ReceivedQuantity,
			&l.PendingQuantity,
			&l.UnitPrice,
			&l.LineAmount,
			&l.DeliveryStatus,
			&l.ImagePath,
		)
		if err != nil {
			return nil, fmt.Errorf("list purchase orders: scan row: %w", err)
		}
		if createdAt.Valid {
			t := createdAt.Time
			l.POCreatedAt = &t
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchase orders: row iteration: %w", err)
	}

	return lines, nil
}

func buildPurchaseOrderQuery(f ports.PurchaseOrderFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`
	SELECT
		po_date,
		po_created_at,
		COALESCE(user_code, ''),
		COALESCE(user_name, ''),
		COALESCE(team_leader_code, ''),
		COALESCE(team_leader_name, ''),
		COALESCE(store_code, ''),
		COALESCE(store_name, ''),
		COALESCE(chain_code, ''),
		COALESCE(chain_name, ''),
		trx_code,
		COALESCE(po_number, trx_code),
		COALESCE(po_status, ''),
		COALESCE(total_amount, 0)::float8,
		COALESCE(product_code, ''),
		COALESCE(product_name, ''),
		COALESCE(product_category, ''),
		COALESCE(quantity, 0)::float8,
		COALESCE(received_quantity, 0)::float8,
		COALESCE(pending_quantity, 0)::float8,
		COALESCE(unit_price, 0)::float8,
		COALESCE(line_amount, 0)::float8,
		COALESCE(delivery_status, ''),
		COALESCE(image_path, '')
	FROM purchase_order_lines
	WHERE po_date BETWEEN $1::date AND $2::date`)

	args := []any{f.StartDate.Format(sqlDate), f.EndDate.Format(sqlDate)}

	// Column names are fixed; only values are bound.
	optional := []struct {
		column string
		value  string
	}{
		{"user_code", f.UserCode},
		{"store_code", f.StoreCode},
		{"po_status", f.POStatus},
		{"team_leader_code", f.TeamLeaderCode},
		{"chain_code", f.ChainCode},
		{"product_category", f.ProductCategory},
		{"delivery_status", f.DeliveryStatus},
	}
	for _, o := range optional {
		if v := normalizeCode(o.value); v != "" {
			args = append(args, v)
			fmt.Fprintf(&b, "\n\t\tAND %s = $%d", o.column, len(args))
		}
	}

	args = append(args, f.Limit)
	fmt.Fprintf(&b, "\n\tORDER BY po_date DESC, trx_code, product_code\n\tLIMIT $%d;", len(args))

	return b.String(), args
}
