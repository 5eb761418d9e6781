package services

import (
	"context"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

const reportCacheTTL = 5 * time.Minute

// PurchaseOrderReport is the filtered, sorted PO status view.
type PurchaseOrderReport struct {
	Filter  ports.PurchaseOrderFilter
	Summary domain.PurchaseOrderSummary
	Lines   []domain.PurchaseOrderLine
}

// ReportService serves the analytics views.
type ReportService struct {
	visits         ports.VisitRepository
	transactions   ports.TransactionRepository
	purchaseOrders ports.PurchaseOrderRepository
	cache          ports.ReportCache
	loc            *time.Location
}

func NewReportService(
	visits ports.VisitRepository,
	transactions ports.TransactionRepository,
	purchaseOrders ports.PurchaseOrderRepository,
	cache ports.ReportCache,
	loc *time.Location,
) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		visits:         visits,
		transactions:   transactions,
		purchaseOrders: purchaseOrders,
		cache:          cache,
		loc:            loc,
	}
}

// TimeMotion builds the time and motion view of a day.
func (s *ReportService) TimeMotion(ctx context.Context, day time.Time, salesmanCode string) (_ domain.TimeMotionReport, err error) {
	defer obs.Time(ctx, "reports.TimeMotion")(&err)

	key := "time-motion|" + day.Format(dateLayout) + "|" + salesmanCode
	return loadCached(ctx, s.cache, key, reportCacheTTL, func(ctx context.Context) (domain.TimeMotionReport, error) {
		visits, err := s.visits.ListVisits(ctx, ports.VisitFilter{From: day, To: day, SalesmanCode: salesmanCode})
		if err != nil {
			return domain.TimeMotionReport{}, fmt.Errorf("time motion: list visits: %w", err)
		}
		return BuildTimeMotion(day, visits, s.loc), nil
	})
}

// Performance builds the sales performance view of period, compared with
// the previous period of the same length.
func (s *ReportService) Performance(ctx context.Context, period DateRange, routeCode string) (_ domain.PerformanceReport, err error) {
	defer obs.Time(ctx, "reports.Performance")(&err)

	key := "performance|" + period.From.Format(dateLayout) + "|" + period.To.Format(dateLayout) + "|" + routeCode
	return loadCached(ctx, s.cache, key, reportCacheTTL, func(ctx context.Context) (domain.PerformanceReport, error) {
		prev := PreviousPeriod(period)

		var current, previous []domain.Transaction

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			current, err = s.transactions.ListTransactions(gctx, ports.TransactionFilter{
				From: period.From, To: period.To, RouteCode: routeCode,
			})
			if err != nil {
				return fmt.Errorf("performance: list transactions: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			previous, err = s.transactions.ListTransactions(gctx, ports.TransactionFilter{
				From: prev.From, To: prev.To, RouteCode: routeCode,
			})
			if err != nil {
				return fmt.Errorf("performance: list previous transactions: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return domain.PerformanceReport{}, err
		}

		return BuildPerformance(period, current, previous, s.loc), nil
	})
}

// PurchaseOrders returns the lines matching f sorted by column, with their summary.
func (s *ReportService) PurchaseOrders(ctx context.Context, f ports.PurchaseOrderFilter, column, dir string) (_ PurchaseOrderReport, err error) {
	defer obs.Time(ctx, "reports.PurchaseOrders")(&err)

	f, err = NormalizePurchaseOrderFilter(f)
	if err != nil {
		return PurchaseOrderReport{}, err
	}
	if _, ok := purchaseOrderSortColumns[column]; column != "" && !ok {
		return PurchaseOrderReport{}, fmt.Errorf("%w: unknown sort column %q", ports.ErrInvalidFilter, column)
	}

	lines, err := loadCached(ctx, s.cache, PurchaseOrderCacheKey(f), PurchaseOrderCacheTTL(f),
		func(ctx context.Context) ([]domain.PurchaseOrderLine, error) {
			lines, err := s.purchaseOrders.ListPurchaseOrders(ctx, f)
			if err != nil {
				return nil, fmt.Errorf("purchase orders: list: %w", err)
			}
			return lines, nil
		})
	if err != nil {
		return PurchaseOrderReport{}, err
	}

	if err := SortPurchaseOrders(lines, column, dir); err != nil {
		return PurchaseOrderReport{}, err
	}

	return PurchaseOrderReport{
		Filter:  f,
		Summary: SummarizePurchaseOrders(lines),
		Lines:   lines,
	}, nil
}
