// Package analytics derives dashboard statistics from the order store.
// Every figure is recomputed on each call; the individual reads are not
// snapshotted together, so a dashboard may reflect a concurrent write.
package analytics

import (
	"context"
	"time"

	"github.com/solestride/orders-service/internal/domain"
)

const (
	seriesDays       = 7
	recentOrderLimit = 10
	dateLayout       = "2006-01-02"
)

// Store is the read-only slice of the order store the aggregator needs.
// *orders.OrderRepository satisfies it.
type Store interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	ItemsSold(ctx context.Context) (int64, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
}

type Service struct {
	store Store

	// now is swapped out in tests to pin the series window.
	now func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Revenue is the sum of totals over non-cancelled orders, zero when the
// store holds none.
func (s *Service) Revenue(ctx context.Context) (float64, error) {
	return s.store.TotalRevenue(ctx)
}

func (s *Service) OrderCount(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// CancellationRate is the share of cancelled orders as a percentage,
// zero when the store is empty.
func (s *Service) CancellationRate(ctx context.Context) (float64, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	cancelled, err := s.store.CountByStatus(ctx, domain.OrderStatusCancelled)
	if err != nil {
		return 0, err
	}

	return float64(cancelled) / float64(total) * 100, nil
}

func (s *Service) ItemsSold(ctx context.Context) (int64, error) {
	return s.store.ItemsSold(ctx)
}

// DailyRevenue returns revenue per calendar day for today and the six
// preceding days, oldest first. Cancelled orders are excluded.
func (s *Service) DailyRevenue(ctx context.Context) ([]domain.DailyMetric, error) {
	return s.dailySeries(ctx, func(order domain.Order) float64 {
		if order.Status == domain.OrderStatusCancelled {
			return 0
		}
		return order.Total
	})
}

// DailyOrders returns the order count per calendar day for today and the
// six preceding days, oldest first. Cancelled orders are counted.
func (s *Service) DailyOrders(ctx context.Context) ([]domain.DailyMetric, error) {
	return s.dailySeries(ctx, func(domain.Order) float64 { return 1 })
}

// dailySeries folds the last week's orders into fixed calendar-day
// buckets. The query bound and the bucket keys use the same clock and
// zone, so an order lands in the bucket matching its creation date or,
// when that date precedes the window, in none at all.
func (s *Service) dailySeries(ctx context.Context, value func(domain.Order) float64) ([]domain.DailyMetric, error) {
	now := s.now()

	orders, err := s.store.ListCreatedSince(ctx, now.AddDate(0, 0, -seriesDays))
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]float64, seriesDays)
	dates := make([]string, 0, seriesDays)
	for i := seriesDays - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format(dateLayout)
		buckets[date] = 0
		dates = append(dates, date)
	}

	for _, order := range orders {
		// Timestamps read back from the store carry the session's zone;
		// bucket in the same zone as the keys so an order created near
		// midnight does not land on the wrong day.
		date := order.CreatedAt.In(now.Location()).Format(dateLayout)
		if _, ok := buckets[date]; !ok {
			continue
		}
		buckets[date] += value(order)
	}

	series := make([]domain.DailyMetric, 0, seriesDays)
	for _, date := range dates {
		series = append(series, domain.DailyMetric{Date: date, Value: buckets[date]})
	}

	return series, nil
}

// StatusDistribution returns one entry per status in declaration order,
// zero counts included, each tagged with its display color.
func (s *Service) StatusDistribution(ctx context.Context) ([]domain.StatusCount, error) {
	distribution := make([]domain.StatusCount, 0, len(domain.OrderStatuses))
	for _, status := range domain.OrderStatuses {
		count, err := s.store.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		distribution = append(distribution, domain.StatusCount{
			Name:  string(status),
			Value: int(count),
			Color: status.DisplayColor(),
		})
	}
	return distribution, nil
}

// RecentOrders returns the ten most recently created orders.
func (s *Service) RecentOrders(ctx context.Context) ([]domain.Order, error) {
	return s.store.ListRecent(ctx, recentOrderLimit)
}

// DashboardStats composes every dashboard figure into one snapshot.
func (s *Service) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	revenue, err := s.Revenue(ctx)
	if err != nil {
		return nil, err
	}

	total, err := s.OrderCount(ctx)
	if err != nil {
		return nil, err
	}

	itemsSold, err := s.ItemsSold(ctx)
	if err != nil {
		return nil, err
	}

	cancelledRate, err := s.CancellationRate(ctx)
	if err != nil {
		return nil, err
	}

	dailyRevenue, err := s.DailyRevenue(ctx)
	if err != nil {
		return nil, err
	}

	dailyOrders, err := s.DailyOrders(ctx)
	if err != nil {
		return nil, err
	}

	statusDistribution, err := s.StatusDistribution(ctx)
	if err != nil {
		return nil, err
	}

	recentOrders, err := s.RecentOrders(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardStats{
		Revenue:            revenue,
		OrdersCount:        int(total),
		ItemsSold:          int(itemsSold),
		CancelledRate:      cancelledRate,
		DailyRevenue:       dailyRevenue,
		DailyOrders:        dailyOrders,
		StatusDistribution: statusDistribution,
		RecentOrders:       recentOrders,
	}, nil
}
