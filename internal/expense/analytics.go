package expense

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/KRN-011/OwnDiary-Backend/internal/period"
)

// AnalyticsStore is the read-only aggregate surface the analytics engine
// consumes. Every query is implicitly scoped to one user.
type AnalyticsStore interface {
	CountCreatedSince(ctx context.Context, userID string, since time.Time) (int64, error)
	SumAll(ctx context.Context, userID string) (decimal.Decimal, error)
	SumBetween(ctx context.Context, userID string, w period.Window) (decimal.Decimal, error)
	AvgBetween(ctx context.Context, userID string, w period.Window) (decimal.Decimal, error)
	ListCreatedBetween(ctx context.Context, userID string, w period.Window) ([]Expense, error)
}

// Analytics computes the derived expense metrics. Now is injectable so the
// calendar windows are testable.
type Analytics struct {
	Store AnalyticsStore
	Now   func() time.Time
}

func NewAnalytics(store AnalyticsStore) *Analytics {
	return &Analytics{Store: store, Now: time.Now}
}

type Cards struct {
	TodayExpenseCount             int64           `json:"todayExpenseCount"`
	TotalExpenseAmount            decimal.Decimal `json:"totalExpenseAmount"`
	TodayExpenseAverage           decimal.Decimal `json:"todayExpenseAverage"`
	CurrentYearExpenseAverage     decimal.Decimal `json:"currentYearExpenseAverage"`
	CurrentMonthExpenseAverage    decimal.Decimal `json:"currentMonthExpenseAverage"`
	CurrentMonthTotal             decimal.Decimal `json:"currentMonthTotal"`
	LastMonthTotal                decimal.Decimal `json:"lastMonthTotal"`
	PercentageChangeFromLastMonth decimal.Decimal `json:"percentageChangeFromLastMonth"`
}

// Cards runs the independent aggregate queries concurrently; they are all
// read-only so no ordering matters.
func (a *Analytics) Cards(ctx context.Context, userID string) (Cards, error) {
	now := a.Now()
	startOfDay := period.StartOfDay(now)
	today := period.Window{From: startOfDay, To: now}
	thisYear := period.Window{From: period.StartOfYear(now), To: now}
	thisMonth := period.CurrentMonth(now)
	lastMonth := period.LastMonth(now)

	var cards Cards
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		cards.TodayExpenseCount, err = a.Store.CountCreatedSince(gctx, userID, startOfDay)
		return err
	})
	g.Go(func() (err error) {
		cards.TotalExpenseAmount, err = a.Store.SumAll(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		cards.TodayExpenseAverage, err = a.Store.AvgBetween(gctx, userID, today)
		return err
	})
	g.Go(func() (err error) {
		cards.CurrentYearExpenseAverage, err = a.Store.AvgBetween(gctx, userID, thisYear)
		return err
	})
	g.Go(func() (err error) {
		cards.CurrentMonthExpenseAverage, err = a.Store.AvgBetween(gctx, userID, thisMonth)
		return err
	})
	g.Go(func() (err error) {
		cards.CurrentMonthTotal, err = a.Store.SumBetween(gctx, userID, thisMonth)
		return err
	})
	g.Go(func() (err error) {
		cards.LastMonthTotal, err = a.Store.SumBetween(gctx, userID, lastMonth)
		return err
	})

	if err := g.Wait(); err != nil {
		return Cards{}, err
	}

	// An empty last month has no baseline; the delta stays at the zero
	// sentinel instead of going non-finite.
	cards.PercentageChangeFromLastMonth, _ = period.PercentChange(cards.CurrentMonthTotal, cards.LastMonthTotal)
	return cards, nil
}

// GraphPoint is one expense projected onto the graph: date-only plus amount,
// one point per expense, never pre-aggregated by day.
type GraphPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

func (a *Analytics) Graph(ctx context.Context, userID string, w period.Window) ([]GraphPoint, error) {
	expenses, err := a.Store.ListCreatedBetween(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	return graphPoints(expenses), nil
}

func graphPoints(expenses []Expense) []GraphPoint {
	points := make([]GraphPoint, 0, len(expenses))
	for _, e := range expenses {
		points = append(points, GraphPoint{
			Date:   e.CreatedAt.Format("2006-01-02"),
			Amount: e.Amount,
		})
	}
	return points
}

// DayGroup is one calendar day's expenses summed up.
type DayGroup struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type ListAnalytics struct {
	TopExpenses []Expense  `json:"topExpenses"`
	DayGroups   []DayGroup `json:"dayGroups"`
}

const topN = 5

// List returns the trailing-30-day list analytics: the top expenses by
// amount and the per-day grouping, both capped at five entries.
func (a *Analytics) List(ctx context.Context, userID string) (ListAnalytics, error) {
	window := period.TrailingDays(a.Now(), 30)
	expenses, err := a.Store.ListCreatedBetween(ctx, userID, window)
	if err != nil {
		return ListAnalytics{}, err
	}
	return ListAnalytics{
		TopExpenses: topByAmount(expenses, topN),
		DayGroups:   groupByDay(expenses, topN),
	}, nil
}

// topByAmount ranks expenses by amount descending; ties keep input order so
// the ranking is deterministic.
func topByAmount(expenses []Expense, n int) []Expense {
	ranked := make([]Expense, len(expenses))
	copy(ranked, expenses)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.GreaterThan(ranked[j].Amount)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// groupByDay buckets expenses by created-at date, orders by bucket total
// descending (date ascending on ties) and caps at n groups.
func groupByDay(expenses []Expense, n int) []DayGroup {
	byDate := map[string]*DayGroup{}
	for _, e := range expenses {
		date := e.CreatedAt.Format("2006-01-02")
		g, ok := byDate[date]
		if !ok {
			g = &DayGroup{Date: date}
			byDate[date] = g
		}
		g.Total = g.Total.Add(e.Amount)
		g.Count++
	}

	groups := make([]DayGroup, 0, len(byDate))
	for _, g := range byDate {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].Total.Equal(groups[j].Total) {
			return groups[i].Total.GreaterThan(groups[j].Total)
		}
		return groups[i].Date < groups[j].Date
	})
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}
