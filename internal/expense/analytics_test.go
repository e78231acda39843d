package expense

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KRN-011/OwnDiary-Backend/internal/period"
)

// memStore computes the aggregate contract in-memory over a fixture slice,
// mirroring what the SQL layer does.
type memStore struct {
	expenses []Expense
}

func (m *memStore) forUser(userID string) []Expense {
	out := make([]Expense, 0)
	for _, e := range m.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

func (m *memStore) CountCreatedSince(_ context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	for _, e := range m.forUser(userID) {
		if !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *memStore) SumAll(_ context.Context, userID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range m.forUser(userID) {
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

func (m *memStore) SumBetween(_ context.Context, userID string, w period.Window) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range m.forUser(userID) {
		if w.Contains(e.CreatedAt) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func (m *memStore) AvgBetween(_ context.Context, userID string, w period.Window) (decimal.Decimal, error) {
	sum := decimal.Zero
	var count int64
	for _, e := range m.forUser(userID) {
		if w.Contains(e.CreatedAt) {
			sum = sum.Add(e.Amount)
			count++
		}
	}
	if count == 0 {
		return decimal.Zero, nil
	}
	return sum.Div(decimal.NewFromInt(count)), nil
}

func (m *memStore) ListCreatedBetween(_ context.Context, userID string, w period.Window) ([]Expense, error) {
	out := make([]Expense, 0)
	for _, e := range m.forUser(userID) {
		if w.Contains(e.CreatedAt) {
			out = append(out, e)
		}
	}
	return out, nil
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func exp(id, userID string, amount string, createdAt time.Time) Expense {
	return Expense{ID: id, UserID: userID, Title: id, Amount: decimal.RequireFromString(amount), CreatedAt: createdAt}
}

func TestCardsScenario(t *testing.T) {
	// Expenses of 100 on Jan 5 and 50 on Feb 10, computed on Feb 15.
	store := &memStore{expenses: []Expense{
		exp("e1", "u1", "100", time.Date(2024, time.January, 5, 10, 0, 0, 0, time.Local)),
		exp("e2", "u1", "50", time.Date(2024, time.February, 10, 9, 0, 0, 0, time.Local)),
	}}
	a := &Analytics{Store: store, Now: fixedNow(time.Date(2024, time.February, 15, 12, 0, 0, 0, time.Local))}

	cards, err := a.Cards(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Cards failed: %v", err)
	}

	if !cards.TotalExpenseAmount.Equal(decimal.RequireFromString("150")) {
		t.Errorf("TotalExpenseAmount = %s, want 150", cards.TotalExpenseAmount)
	}
	if !cards.CurrentMonthExpenseAverage.Equal(decimal.RequireFromString("50")) {
		t.Errorf("CurrentMonthExpenseAverage = %s, want 50", cards.CurrentMonthExpenseAverage)
	}
	if !cards.CurrentMonthTotal.Equal(decimal.RequireFromString("50")) {
		t.Errorf("CurrentMonthTotal = %s, want 50", cards.CurrentMonthTotal)
	}
	if !cards.LastMonthTotal.Equal(decimal.RequireFromString("100")) {
		t.Errorf("LastMonthTotal = %s, want 100", cards.LastMonthTotal)
	}
	if !cards.PercentageChangeFromLastMonth.Equal(decimal.RequireFromString("-50")) {
		t.Errorf("PercentageChangeFromLastMonth = %s, want -50", cards.PercentageChangeFromLastMonth)
	}
	if cards.TodayExpenseCount != 0 {
		t.Errorf("TodayExpenseCount = %d, want 0", cards.TodayExpenseCount)
	}
}

func TestCardsEmptyLastMonthYieldsSentinel(t *testing.T) {
	store := &memStore{expenses: []Expense{
		exp("e1", "u1", "80", time.Date(2024, time.February, 10, 9, 0, 0, 0, time.Local)),
	}}
	a := &Analytics{Store: store, Now: fixedNow(time.Date(2024, time.February, 15, 12, 0, 0, 0, time.Local))}

	cards, err := a.Cards(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Cards failed: %v", err)
	}
	if !cards.PercentageChangeFromLastMonth.IsZero() {
		t.Errorf("PercentageChangeFromLastMonth = %s, want 0 sentinel", cards.PercentageChangeFromLastMonth)
	}
}

func TestCardsIgnoreOtherUsers(t *testing.T) {
	store := &memStore{expenses: []Expense{
		exp("mine", "u1", "10", time.Date(2024, time.February, 10, 9, 0, 0, 0, time.Local)),
		exp("theirs", "u2", "9999", time.Date(2024, time.February, 10, 9, 0, 0, 0, time.Local)),
	}}
	a := &Analytics{Store: store, Now: fixedNow(time.Date(2024, time.February, 15, 12, 0, 0, 0, time.Local))}

	cards, err := a.Cards(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Cards failed: %v", err)
	}
	if !cards.TotalExpenseAmount.Equal(decimal.RequireFromString("10")) {
		t.Errorf("TotalExpenseAmount = %s, want 10", cards.TotalExpenseAmount)
	}
}

func TestGraphInclusiveBoundaries(t *testing.T) {
	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2024, time.March, 31, 23, 59, 59, 0, time.Local)
	store := &memStore{expenses: []Expense{
		exp("start", "u1", "10", from),
		exp("mid", "u1", "20", time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)),
		exp("end", "u1", "30", to),
		exp("before", "u1", "40", from.Add(-time.Second)),
		exp("after", "u1", "50", to.Add(time.Second)),
	}}
	a := &Analytics{Store: store, Now: time.Now}

	points, err := a.Graph(context.Background(), "u1", period.Window{From: from, To: to})
	if err != nil {
		t.Fatalf("Graph failed: %v", err)
	}

	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	// One entry per expense, not aggregated per day.
	if points[0].Date != "2024-03-01" || !points[0].Amount.Equal(decimal.RequireFromString("10")) {
		t.Errorf("first point = %+v", points[0])
	}
}

func TestListTopFiveCapAndOrder(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
	store := &memStore{}
	for i := 0; i < 8; i++ {
		store.expenses = append(store.expenses, exp(
			fmt.Sprintf("e%d", i), "u1", fmt.Sprintf("%d", (i+1)*10),
			now.AddDate(0, 0, -i),
		))
	}
	// Outside the trailing 30 days, must not appear.
	store.expenses = append(store.expenses, exp("old", "u1", "1000", now.AddDate(0, 0, -40)))

	a := &Analytics{Store: store, Now: fixedNow(now)}
	list, err := a.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(list.TopExpenses) != 5 {
		t.Fatalf("TopExpenses has %d entries, want 5", len(list.TopExpenses))
	}
	for i := 1; i < len(list.TopExpenses); i++ {
		if list.TopExpenses[i].Amount.GreaterThan(list.TopExpenses[i-1].Amount) {
			t.Errorf("TopExpenses not sorted descending at %d", i)
		}
	}
	if !list.TopExpenses[0].Amount.Equal(decimal.RequireFromString("80")) {
		t.Errorf("top amount = %s, want 80", list.TopExpenses[0].Amount)
	}
	if len(list.DayGroups) > 5 {
		t.Errorf("DayGroups has %d entries, want at most 5", len(list.DayGroups))
	}
}

func TestGroupByDayAggregates(t *testing.T) {
	day := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local)
	expenses := []Expense{
		exp("a", "u1", "10", day.Add(8*time.Hour)),
		exp("b", "u1", "15", day.Add(20*time.Hour)),
		exp("c", "u1", "7", day.AddDate(0, 0, 1)),
	}

	groups := groupByDay(expenses, 5)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Date != "2024-06-10" || !groups[0].Total.Equal(decimal.RequireFromString("25")) || groups[0].Count != 2 {
		t.Errorf("first group = %+v", groups[0])
	}
	if groups[1].Date != "2024-06-11" || !groups[1].Total.Equal(decimal.RequireFromString("7")) {
		t.Errorf("second group = %+v", groups[1])
	}
}

func TestTopByAmountStableTies(t *testing.T) {
	now := time.Now()
	expenses := []Expense{
		exp("first", "u1", "50", now),
		exp("second", "u1", "50", now),
		exp("third", "u1", "50", now),
	}

	ranked := topByAmount(expenses, 5)
	if ranked[0].ID != "first" || ranked[1].ID != "second" || ranked[2].ID != "third" {
		t.Errorf("tie order not stable: %s, %s, %s", ranked[0].ID, ranked[1].ID, ranked[2].ID)
	}
}
