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

const sqlDate = "2006-01-02"

// PostgreSQL-backed implementation of the VisitRepository port.
type PostgresVisitRepository struct{ DB *sql.DB }

func NewPostgresVisitRepository(db *sql.DB) *PostgresVisitRepository {
	return &PostgresVisitRepository{DB: db}
}

// ListVisits returns visits in the date range ordered by salesman and
// arrival. Rows the route core cannot use are dropped and counted.
func (r *PostgresVisitRepository) ListVisits(ctx context.Context, f ports.VisitFilter) (_ []domain.Visit, err error) {
	defer obs.Time(ctx, "visits.List")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres visit repository: DB is nil")
	}

	if f.From.IsZero() || f.To.IsZero() || f.From.After(f.To) {
		return nil, fmt.Errorf("list visits: %w: date range %s..%s", ports.ErrInvalidFilter,
			f.From.Format(sqlDate), f.To.Format(sqlDate))
	}

	query, args := buildVisitQuery(f)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list visits: query customer_visits table: %w", err)
	}
	defer rows.Close()

	visits := make([]domain.Visit, 0, 256)
	dropped := 0
	for rows.Next() {
		var (
			v         domain.Visit
			lat, lon  sql.NullFloat64
			arrival   sql.NullTime
			departure sql.NullTime
		)
		err := rows.Scan(
			&v.VisitID,
			&v.SalesmanCode,
			&v.SalesmanName,
			&v.RouteCode,
			&v.RouteName,
			&v.CustomerCode,
			&v.CustomerName,
			&lat,
			&lon,
			&arrival,
			&departure,
			&v.DurationMinutes,
			&v.Productive,
			&v.VisitType,
			&v.OrderValue,
		)
		if err != nil {
			return nil, fmt.Errorf("list visits: scan row: %w", err)
		}

		if lat.Valid && lon.Valid {
			v.Coordinates = domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
		}
		if arrival.Valid {
			v.ArrivalTime = arrival.Time
		}
		if departure.Valid {
			d := departure.Time
			v.DepartureTime = &d
		}

		if err := v.Validate(); err != nil {
			dropped++
			continue
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list visits: row iteration: %w", err)
	}

	if dropped > 0 {
		obs.Warn("req_id", obs.RequestID(ctx), "msg", "dropped unusable visit rows", "dropped", dropped, "kept", len(visits))
	}

	return visits, nil
}

func buildVisitQuery(f ports.VisitFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`
	SELECT
		visit_id,
		salesman_code,
		COALESCE(salesman_name, salesman_code),
		COALESCE(route_code, ''),
		COALESCE(route_name, ''),
		customer_code,
		COALESCE(customer_name, customer_code),
		latitude,
		longitude,
		arrival_time,
		departure_time,
		COALESCE(duration_minutes, 0),
		is_productive,
		COALESCE(visit_type, 'Regular'),
		COALESCE(order_value, 0)::float8
	FROM customer_visits
	WHERE visit_date BETWEEN $1::date AND $2::date`)

	args := []any{f.From.Format(sqlDate), f.To.Format(sqlDate)}

	if code := normalizeCode(f.SalesmanCode); code != "" {
		args = append(args, code)
		fmt.Fprintf(&b, "\n\t\tAND salesman_code = $%d", len(args))
	}
	if code := normalizeCode(f.RouteCode); code != "" {
		args = append(args, code)
		fmt.Fprintf(&b, "\n\t\tAND route_code = $%d", len(args))
	}

	b.WriteString("\n\tORDER BY salesman_code, arrival_time;")

	return b.String(), args
}

// normalizeCode trims a filter value; "all" means no filter.
func normalizeCode(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
