package trade

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/KRN-011/OwnDiary-Backend/internal/period"
)

// AggregatesBetween collects the window's sum and win/loss/total counts in
// one round trip.
func (r *Repository) AggregatesBetween(ctx context.Context, userID string, w period.Window) (MonthStats, error) {
	var stats MonthStats
	var netProfit string
	err := r.Pool.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(net_profit), 0)::text,
			COUNT(*) FILTER (WHERE net_profit > 0),
			COUNT(*) FILTER (WHERE net_profit < 0),
			COUNT(*)
		 FROM trades
		 WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3`,
		userID, w.From, w.To,
	).Scan(&netProfit, &stats.Wins, &stats.Losses, &stats.Trades)
	if err != nil {
		return MonthStats{}, err
	}
	stats.NetProfit, err = decimal.NewFromString(netProfit)
	if err != nil {
		return MonthStats{}, err
	}
	return stats, nil
}

// ListCreatedBetween returns every trade created in the inclusive window,
// oldest first.
func (r *Repository) ListCreatedBetween(ctx context.Context, userID string, w period.Window) ([]Trade, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+tradeColumns+` `+tradeJoins+`
		 WHERE t.user_id = $1 AND t.created_at >= $2 AND t.created_at <= $3
		 ORDER BY t.created_at ASC, t.id ASC`,
		userID, w.From, w.To,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Trade, 0)
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SearchSymbols returns the distinct symbol names of one user matching the
// case-insensitive substring search.
func (r *Repository) SearchSymbols(ctx context.Context, userID, search string) ([]string, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT DISTINCT name
		 FROM symbols
		 WHERE user_id = $1 AND name ILIKE $2 ESCAPE '\'
		 ORDER BY name ASC`,
		userID, "%"+escapeLike(strings.TrimSpace(search))+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
