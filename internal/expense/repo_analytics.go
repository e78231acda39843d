package expense

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KRN-011/OwnDiary-Backend/internal/period"
)

func (r *Repository) CountCreatedSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM expenses WHERE user_id = $1 AND created_at >= $2`,
		userID, since,
	).Scan(&count)
	return count, err
}

func (r *Repository) SumAll(ctx context.Context, userID string) (decimal.Decimal, error) {
	return r.scanDecimal(ctx,
		`SELECT COALESCE(SUM(amount), 0)::text FROM expenses WHERE user_id = $1`,
		userID,
	)
}

func (r *Repository) SumBetween(ctx context.Context, userID string, w period.Window) (decimal.Decimal, error) {
	return r.scanDecimal(ctx,
		`SELECT COALESCE(SUM(amount), 0)::text
		 FROM expenses
		 WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3`,
		userID, w.From, w.To,
	)
}

func (r *Repository) AvgBetween(ctx context.Context, userID string, w period.Window) (decimal.Decimal, error) {
	return r.scanDecimal(ctx,
		`SELECT COALESCE(AVG(amount), 0)::text
		 FROM expenses
		 WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3`,
		userID, w.From, w.To,
	)
}

// ListCreatedBetween returns every expense (top-level and sub) created in
// the inclusive window, oldest first.
func (r *Repository) ListCreatedBetween(ctx context.Context, userID string, w period.Window) ([]Expense, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses
		 WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		 ORDER BY created_at ASC, id ASC`,
		userID, w.From, w.To,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) scanDecimal(ctx context.Context, sql string, args ...any) (decimal.Decimal, error) {
	var raw string
	if err := r.Pool.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}
