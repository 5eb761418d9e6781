package ports

import (
	"context"
	"errors"
	"fieldops-service/internal/domain"
	"time"
)

var ErrInvalidFilter = errors.New("invalid filter")

// VisitFilter selects visits by date range (inclusive, by visit date) and
// optionally salesman and route.
type VisitFilter struct {
	From         time.Time
	To           time.Time
	SalesmanCode string
	RouteCode    string
}

// Port: a boundary for retrieving the journey data source.
type VisitRepository interface {
	// List visits matching the filter. Records without coordinates or arrival are dropped.
	ListVisits(ctx context.Context, f VisitFilter) ([]domain.Visit, error)
}

// TransactionFilter selects sale transactions by date range (inclusive) and optional route.
type TransactionFilter struct {
	From      time.Time
	To        time.Time
	RouteCode string
}

// Port: a boundary for retrieving sales transactions.
type TransactionRepository interface {
	ListTransactions(ctx context.Context, f TransactionFilter) ([]domain.Transaction, error)
}
