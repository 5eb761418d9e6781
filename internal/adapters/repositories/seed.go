package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fieldops-service/internal/domain"
	"fmt"
	"os"
	"strings"
	"time"
)

// Seed is the JSON document loaded by SeedFromJSON.
type Seed struct {
	Visits         []VisitSeed         `json:"visits"`
	Transactions   []TransactionSeed   `json:"transactions"`
	PurchaseOrders []PurchaseOrderSeed `json:"purchase_orders"`
}

type VisitSeed struct {
	VisitID         string     `json:"visit_id"`
	SalesmanCode    string     `json:"salesman_code"`
	SalesmanName    string     `json:"salesman_name"`
	RouteCode       string     `json:"route_code"`
	RouteName       string     `json:"route_name"`
	CustomerCode    string     `json:"customer_code"`
	CustomerName    string     `json:"customer_name"`
	Latitude        *float64   `json:"latitude"`
	Longitude       *float64   `json:"longitude"`
	ArrivalTime     *time.Time `json:"arrival_time"`
	DepartureTime   *time.Time `json:"departure_time"`
	DurationMinutes int        `json:"duration_minutes"`
	Productive      bool       `json:"is_productive"`
	VisitType       string     `json:"visit_type"`
	OrderValue      float64    `json:"order_value"`
}

type TransactionSeed struct {
	TrxCode      string    `json:"trx_code"`
	TrxDate      time.Time `json:"trx_date"`
	TrxType      string    `json:"trx_type"`
	SalesmanCode string    `json:"salesman_code"`
	SalesmanName string    `json:"salesman_name"`
	RouteCode    string    `json:"route_code"`
	RouteName    string    `json:"route_name"`
	CustomerCode string    `json:"customer_code"`
	TotalAmount  float64   `json:"total_amount"`
}

type PurchaseOrderSeed struct {
	TrxCode          string     `json:"trx_code"`
	PONumber         string     `json:"po_number"`
	PODate           string     `json:"po_date"`
	POCreatedAt      *time.Time `json:"po_created_at"`
	POStatus         string     `json:"po_status"`
	UserCode         string     `json:"user_code"`
	UserName         string     `json:"user_name"`
	TeamLeaderCode   string     `json:"team_leader_code"`
	TeamLeaderName   string     `json:"team_leader_name"`
	StoreCode        string     `json:"store_code"`
	StoreName        string     `json:"store_name"`
	ChainCode        string     `json:"chain_code"`
	ChainName        string     `json:"chain_name"`
	TotalAmount      float64    `json:"total_amount"`
	ProductCode      string     `json:"product_code"`
	ProductName      string     `json:"product_name"`
	ProductCategory  string     `json:"product_category"`
	Quantity         float64    `json:"quantity"`
	ReceivedQuantity float64    `json:"received_quantity"`
	UnitPrice        float64    `json:"unit_price"`
	DeliveryStatus   string     `json:"delivery_status"`
	ImagePath        string     `json:"image_path"`
}

// ParseSeed decodes and validates a seed document. Visits without usable
// coordinates or arrival time are rejected with their 1-based index.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}

	for i, v := range seed.Visits {
		if strings.TrimSpace(v.VisitID) == "" {
			return Seed{}, fmt.Errorf("parse seed: visit at index %d: visit_id cannot be empty", i+1)
		}
		if err := v.toVisit().Validate(); err != nil {
			return Seed{}, fmt.Errorf("parse seed: visit %q at index %d: %w", v.VisitID, i+1, err)
		}
	}

	for i, t := range seed.Transactions {
		if strings.TrimSpace(t.TrxCode) == "" || strings.TrimSpace(t.SalesmanCode) == "" {
			return Seed{}, fmt.Errorf("parse seed: transaction at index %d: trx_code and salesman_code are required", i+1)
		}
		if t.TrxDate.IsZero() {
			return Seed{}, fmt.Errorf("parse seed: transaction %q at index %d: trx_date is required", t.TrxCode, i+1)
		}
	}

	for i, po := range seed.PurchaseOrders {
		if strings.TrimSpace(po.TrxCode) == "" || strings.TrimSpace(po.ProductCode) == "" {
			return Seed{}, fmt.Errorf("parse seed: purchase order at index %d: trx_code and product_code are required", i+1)
		}
		if _, err := time.Parse("2006-01-02", po.PODate); err != nil {
			return Seed{}, fmt.Errorf("parse seed: purchase order %q at index %d: po_date: %w", po.TrxCode, i+1, err)
		}
	}

	return seed, nil
}

func (v VisitSeed) toVisit() domain.Visit {
	visit := domain.Visit{
		VisitID:         v.VisitID,
		SalesmanCode:    strings.TrimSpace(v.SalesmanCode),
		SalesmanName:    v.SalesmanName,
		RouteCode:       v.RouteCode,
		RouteName:       v.RouteName,
		CustomerCode:    v.CustomerCode,
		CustomerName:    v.CustomerName,
		DepartureTime:   v.DepartureTime,
		DurationMinutes: v.DurationMinutes,
		Productive:      v.Productive,
		VisitType:       v.VisitType,
		OrderValue:      v.OrderValue,
	}
	if v.Latitude != nil && v.Longitude != nil {
		visit.Coordinates = domain.Coordinates{Lon: *v.Longitude, Lat: *v.Latitude}
	}
	if v.ArrivalTime != nil {
		visit.ArrivalTime = *v.ArrivalTime
	}
	return visit
}

// Populate the database from a JSON seed file. Visit and transaction dates
// are taken in loc.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string, loc *time.Location) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	seed, err := ParseSeed(bytes)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	if loc == nil {
		loc = time.UTC
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := seedVisits(ctx, tx, seed.Visits, loc); err != nil {
		return err
	}
	if err := seedTransactions(ctx, tx, seed.Transactions, loc); err != nil {
		return err
	}
	if err := seedPurchaseOrders(ctx, tx, seed.PurchaseOrders); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}

func seedVisits(ctx context.Context, tx *sql.Tx, visits []VisitSeed, loc *time.Location) error {
	query := `
	INSERT INTO customer_visits (
		visit_id, visit_date, salesman_code, salesman_name, route_code, route_name,
		customer_code, customer_name, latitude, longitude, arrival_time, departure_time,
		duration_minutes, is_productive, visit_type, order_value
	)
	VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (visit_id) DO UPDATE SET
		visit_date = EXCLUDED.visit_date,
		arrival_time = EXCLUDED.arrival_time,
		departure_time = EXCLUDED.departure_time,
		duration_minutes = EXCLUDED.duration_minutes,
		is_productive = EXCLUDED.is_productive,
		order_value = EXCLUDED.order_value;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed visits: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range visits {
		day := v.ArrivalTime.In(loc).Format("2006-01-02")
		if _, err := stmt.ExecContext(ctx,
			v.VisitID, day, v.SalesmanCode, v.SalesmanName, v.RouteCode, v.RouteName,
			v.CustomerCode, v.CustomerName, *v.Latitude, *v.Longitude, *v.ArrivalTime, v.DepartureTime,
			v.DurationMinutes, v.Productive, v.VisitType, v.OrderValue,
		); err != nil {
			return fmt.Errorf("seed visits: insert visit_id=%s: %w", v.VisitID, err)
		}
	}

	return nil
}

func seedTransactions(ctx context.Context, tx *sql.Tx, trx []TransactionSeed, loc *time.Location) error {
	query := `
	INSERT INTO sales_transactions (
		trx_code, trx_date, trx_date_only, trx_type, salesman_code, salesman_name,
		route_code, route_name, customer_code, total_amount
	)
	VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (trx_code) DO UPDATE SET
		trx_date = EXCLUDED.trx_date,
		trx_date_only = EXCLUDED.trx_date_only,
		total_amount = EXCLUDED.total_amount;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed transactions: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trx {
		trxType := t.TrxType
		if trxType == "" {
			trxType = "SALE"
		}
		if _, err := stmt.ExecContext(ctx,
			t.TrxCode, t.TrxDate, t.TrxDate.In(loc).Format("2006-01-02"), trxType, t.SalesmanCode, t.SalesmanName,
			t.RouteCode, t.RouteName, t.CustomerCode, t.TotalAmount,
		); err != nil {
			return fmt.Errorf("seed transactions: insert trx_code=%s: %w", t.TrxCode, err)
		}
	}

	return nil
}

func seedPurchaseOrders(ctx context.Context, tx *sql.Tx, lines []PurchaseOrderSeed) error {
	query := `
	INSERT INTO purchase_order_lines (
		trx_code, po_number, po_date, po_created_at, po_status, user_code, user_name,
		team_leader_code, team_leader_name, store_code, store_name, chain_code, chain_name,
		total_amount, product_code, product_name, product_category, quantity,
		received_quantity, pending_quantity, unit_price, line_amount, delivery_status, image_path
	)
	VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	ON CONFLICT (trx_code, product_code) DO UPDATE SET
		po_status = EXCLUDED.po_status,
		received_quantity = EXCLUDED.received_quantity,
		pending_quantity = EXCLUDED.pending_quantity,
		delivery_status = EXCLUDED.delivery_status;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed purchase orders: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, po := range lines {
		pending := po.Quantity - po.ReceivedQuantity
		if pending < 0 {
			pending = 0
		}
		if _, err := stmt.ExecContext(ctx,
			po.TrxCode, po.PONumber, po.PODate, po.POCreatedAt, po.POStatus, po.UserCode, po.UserName,
			po.TeamLeaderCode, po.TeamLeaderName, po.StoreCode, po.StoreName, po.ChainCode, po.ChainName,
			po.TotalAmount, po.ProductCode, po.ProductName, po.ProductCategory, po.Quantity,
			po.ReceivedQuantity, pending, po.UnitPrice, po.Quantity*po.UnitPrice, po.DeliveryStatus, po.ImagePath,
		); err != nil {
			return fmt.Errorf("seed purchase orders: insert trx_code=%s product=%s: %w", po.TrxCode, po.ProductCode, err)
		}
	}

	return nil
}
