package services

import (
	"context"
	"errors"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/platform/obs"
	"fieldops-service/internal/ports"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// TrackingQuery selects the visits shown on the tracking view.
type TrackingQuery struct {
	Range        DateRange
	SalesmanCode string
	RouteCode    string
}

func (q TrackingQuery) cacheKey() string {
	return strings.Join([]string{
		"tracking",
		q.Range.From.Format(dateLayout),
		q.Range.To.Format(dateLayout),
		q.SalesmanCode,
		q.RouteCode,
	}, "|")
}

// TrackingOverview is the tracking list: one summary per salesman and one
// journey per salesman and visit day.
type TrackingOverview struct {
	From      time.Time
	To        time.Time
	Summaries []domain.JourneySummary
	Journeys  []domain.Journey
}

// TrackingService serves journey data for the tracking map.
type TrackingService struct {
	visits       ports.VisitRepository
	transactions ports.TransactionRepository
	cache        ports.ReportCache
	ttl          time.Duration
	loc          *time.Location
}

func NewTrackingService(
	visits ports.VisitRepository,
	transactions ports.TransactionRepository,
	cache ports.ReportCache,
	ttl time.Duration,
	loc *time.Location,
) *TrackingService {
	if loc == nil {
		loc = time.UTC
	}
	return &TrackingService{
		visits:       visits,
		transactions: transactions,
		cache:        cache,
		ttl:          ttl,
		loc:          loc,
	}
}

// Overview loads visits and posted sales for q and rolls them up per salesman.
func (s *TrackingService) Overview(ctx context.Context, q TrackingQuery) (_ TrackingOverview, err error) {
	defer obs.Time(ctx, "tracking.Overview")(&err)

	return loadCached(ctx, s.cache, q.cacheKey(), s.ttl, func(ctx context.Context) (TrackingOverview, error) {
		var (
			visits []domain.Visit
			trx    []domain.Transaction
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			visits, err = s.visits.ListVisits(gctx, ports.VisitFilter{
				From:         q.Range.From,
				To:           q.Range.To,
				SalesmanCode: q.SalesmanCode,
				RouteCode:    q.RouteCode,
			})
			if err != nil {
				return fmt.Errorf("tracking overview: list visits: %w", err)
			}
			return nil
		})
		if s.transactions != nil {
			g.Go(func() error {
				var err error
				trx, err = s.transactions.ListTransactions(gctx, ports.TransactionFilter{
					From:      q.Range.From,
					To:        q.Range.To,
					RouteCode: q.RouteCode,
				})
				if err != nil {
					return fmt.Errorf("tracking overview: list transactions: %w", err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return TrackingOverview{}, err
		}

		var sales map[string]float64
		if s.transactions != nil {
			sales = make(map[string]float64)
			for _, t := range trx {
				sales[t.SalesmanCode] += t.TotalAmount
			}
		}

		summaries := SummarizeJourneys(visits, sales, s.loc)
		journeys := make([]domain.Journey, 0, len(summaries))
		for _, sum := range summaries {
			journeys = append(journeys, DailyJourneys(sum.SalesmanCode, visits, s.loc)...)
		}

		return TrackingOverview{
			From:      q.Range.From,
			To:        q.Range.To,
			Summaries: summaries,
			Journeys:  journeys,
		}, nil
	})
}

// Journey returns one salesman's journey for a day.
func (s *TrackingService) Journey(ctx context.Context, day time.Time, salesmanCode string) (_ domain.Journey, err error) {
	defer obs.Time(ctx, "tracking.Journey")(&err)

	salesmanCode = strings.TrimSpace(salesmanCode)
	if salesmanCode == "" || strings.EqualFold(salesmanCode, "all") {
		return domain.Journey{}, fmt.Errorf("%w: a single salesman is required", ports.ErrInvalidFilter)
	}

	visits, err := s.visits.ListVisits(ctx, ports.VisitFilter{From: day, To: day, SalesmanCode: salesmanCode})
	if err != nil {
		if errors.Is(err, ports.ErrInvalidFilter) {
			return domain.Journey{}, err
		}
		return domain.Journey{}, fmt.Errorf("tracking journey: list visits: %w", err)
	}

	j := BuildJourney(salesmanCode, visits)
	j.Date = day
	return j, nil
}
