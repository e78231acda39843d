package trade

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/KRN-011/OwnDiary-Backend/internal/period"
)

// MonthStats are the raw aggregates of one calendar window.
type MonthStats struct {
	NetProfit decimal.Decimal
	Wins      int64
	Losses    int64
	Trades    int64
}

// AnalyticsStore is the read-only aggregate surface the analytics engine
// consumes. Every query is implicitly scoped to one user.
type AnalyticsStore interface {
	AggregatesBetween(ctx context.Context, userID string, w period.Window) (MonthStats, error)
	ListCreatedBetween(ctx context.Context, userID string, w period.Window) ([]Trade, error)
	SearchSymbols(ctx context.Context, userID, search string) ([]string, error)
}

type Analytics struct {
	Store AnalyticsStore
	Now   func() time.Time
}

func NewAnalytics(store AnalyticsStore) *Analytics {
	return &Analytics{Store: store, Now: time.Now}
}

type Cards struct {
	CurrentMonthNetProfit         decimal.Decimal `json:"currentMonthNetProfit"`
	WinCountOfCurrentMonth        int64           `json:"winCountOfCurrentMonth"`
	LossCountOfCurrentMonth       int64           `json:"lossCountOfCurrentMonth"`
	WinRateOfCurrentMonth         float64         `json:"winRateOfCurrentMonth"`
	TotalTradesOfCurrentMonth     int64           `json:"totalTradesOfCurrentMonth"`
	LastMonthNetProfit            decimal.Decimal `json:"lastMonthNetProfit"`
	PercentageChangeFromLastMonth decimal.Decimal `json:"percentageChangeFromLastMonth"`
}

// Cards aggregates the current and the previous calendar month; the two
// queries are independent and run concurrently.
func (a *Analytics) Cards(ctx context.Context, userID string) (Cards, error) {
	now := a.Now()

	var current, last MonthStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		current, err = a.Store.AggregatesBetween(gctx, userID, period.CurrentMonth(now))
		return err
	})
	g.Go(func() (err error) {
		last, err = a.Store.AggregatesBetween(gctx, userID, period.LastMonth(now))
		return err
	})
	if err := g.Wait(); err != nil {
		return Cards{}, err
	}

	cards := Cards{
		CurrentMonthNetProfit:     current.NetProfit,
		WinCountOfCurrentMonth:    current.Wins,
		LossCountOfCurrentMonth:   current.Losses,
		WinRateOfCurrentMonth:     period.WinRate(current.Wins, current.Losses),
		TotalTradesOfCurrentMonth: current.Trades,
		LastMonthNetProfit:        last.NetProfit,
	}
	cards.PercentageChangeFromLastMonth, _ = period.PercentChange(current.NetProfit, last.NetProfit)
	return cards, nil
}

// GraphPoint is one trade projected onto the graph: date-only plus net
// profit, one point per trade.
type GraphPoint struct {
	Date      string          `json:"date"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

func (a *Analytics) Graph(ctx context.Context, userID string, w period.Window) ([]GraphPoint, error) {
	trades, err := a.Store.ListCreatedBetween(ctx, userID, w)
	if err != nil {
		return nil, err
	}

	points := make([]GraphPoint, 0, len(trades))
	for _, t := range trades {
		points = append(points, GraphPoint{
			Date:      t.CreatedAt.Format("2006-01-02"),
			NetProfit: t.NetProfit,
		})
	}
	return points, nil
}

// DayGroup aggregates net profit per weekday bucket.
type DayGroup struct {
	Day       string          `json:"day"`
	NetProfit decimal.Decimal `json:"netProfit"`
	Count     int             `json:"count"`
}

type ListAnalytics struct {
	Top5ProfitableDaysInLast30Days   []DayGroup `json:"top5ProfitableDaysInLast30Days"`
	Top5LossDaysInLastYear           []DayGroup `json:"top5LossDaysInLastYear"`
	Top5ProfitableTradesInLast30Days []Trade    `json:"top5ProfitableTradesInLast30Days"`
	Top5LosingTradesInLastYear       []Trade    `json:"top5LosingTradesInLastYear"`
}

const topN = 5

// List computes the four parallel rankings. The trailing-30-day rows are a
// subset of the trailing-year rows, so one fetch feeds all four.
func (a *Analytics) List(ctx context.Context, userID string) (ListAnalytics, error) {
	now := a.Now()
	year := period.TrailingDays(now, 365)
	month := period.TrailingDays(now, 30)

	trades, err := a.Store.ListCreatedBetween(ctx, userID, year)
	if err != nil {
		return ListAnalytics{}, err
	}

	recent := filterWindow(trades, month)
	return ListAnalytics{
		Top5ProfitableDaysInLast30Days:   topDayGroups(winners(recent), topN),
		Top5LossDaysInLastYear:           topDayGroups(losers(trades), topN),
		Top5ProfitableTradesInLast30Days: topByNetProfit(winners(recent), topN),
		Top5LosingTradesInLastYear:       topByNetProfit(losers(trades), topN),
	}, nil
}

func (a *Analytics) Symbols(ctx context.Context, userID, search string) ([]string, error) {
	return a.Store.SearchSymbols(ctx, userID, search)
}

func filterWindow(trades []Trade, w period.Window) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if w.Contains(t.CreatedAt) {
			out = append(out, t)
		}
	}
	return out
}

func winners(trades []Trade) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.NetProfit.IsPositive() {
			out = append(out, t)
		}
	}
	return out
}

func losers(trades []Trade) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.NetProfit.IsNegative() {
			out = append(out, t)
		}
	}
	return out
}

// topByNetProfit ranks trades by net profit descending and caps at n. The
// loss rankings use the same order, so their entries are the mildest
// losses; ties keep input order so the ranking is deterministic.
func topByNetProfit(trades []Trade, n int) []Trade {
	ranked := make([]Trade, len(trades))
	copy(ranked, trades)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NetProfit.GreaterThan(ranked[j].NetProfit)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// topDayGroups buckets trades by weekday, orders buckets by summed net
// profit descending (day name ascending on ties) and caps at n.
func topDayGroups(trades []Trade, n int) []DayGroup {
	byDay := map[string]*DayGroup{}
	for _, t := range trades {
		g, ok := byDay[t.Day]
		if !ok {
			g = &DayGroup{Day: t.Day}
			byDay[t.Day] = g
		}
		g.NetProfit = g.NetProfit.Add(t.NetProfit)
		g.Count++
	}

	groups := make([]DayGroup, 0, len(byDay))
	for _, g := range byDay {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].NetProfit.Equal(groups[j].NetProfit) {
			return groups[i].NetProfit.GreaterThan(groups[j].NetProfit)
		}
		return groups[i].Day < groups[j].Day
	})
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}
