package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const tradeColumns = `t.id::text, t.user_id::text, t.date, t.day, t.time,
	t.symbol_id::text, s.name, t.segment, t.trade_type,
	t.entry_price::text, t.quantity, t.stoploss_price::text, t.exit_price::text,
	t.net_profit::text, t.is_rules_followed, t.remark_on_trade,
	t.broker_id::text, b.name, t.brokerage::text, t.created_at, t.updated_at`

const tradeJoins = `FROM trades t
	LEFT JOIN symbols s ON s.id = t.symbol_id
	LEFT JOIN brokers b ON b.id = t.broker_id`

func scanTrade(row pgx.Row) (Trade, error) {
	var t Trade
	var entry, stoploss, exit, netProfit, brokerage string
	err := row.Scan(
		&t.ID, &t.UserID, &t.Date, &t.Day, &t.Time,
		&t.SymbolID, &t.SymbolName, &t.Segment, &t.TradeType,
		&entry, &t.Quantity, &stoploss, &exit,
		&netProfit, &t.IsRulesFollowed, &t.RemarkOnTrade,
		&t.BrokerID, &t.BrokerName, &brokerage, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return Trade{}, err
	}
	for _, pair := range []struct {
		raw string
		dst *decimal.Decimal
	}{
		{entry, &t.EntryPrice},
		{stoploss, &t.StoplossPrice},
		{exit, &t.ExitPrice},
		{netProfit, &t.NetProfit},
		{brokerage, &t.Brokerage},
	} {
		d, err := decimal.NewFromString(pair.raw)
		if err != nil {
			return Trade{}, fmt.Errorf("parsing numeric %q: %w", pair.raw, err)
		}
		*pair.dst = d
	}
	return t, nil
}

// UpsertSymbol atomically resolves a symbol name to its per-user id,
// creating the row when absent. The DO UPDATE makes RETURNING yield the
// surviving row under concurrent inserts.
func (r *Repository) UpsertSymbol(ctx context.Context, userID, name string) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO symbols (user_id, name)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id::text`,
		userID, name,
	).Scan(&id)
	return id, err
}

// UpsertBroker is the broker counterpart of UpsertSymbol.
func (r *Repository) UpsertBroker(ctx context.Context, userID, name string) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO brokers (user_id, name)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id::text`,
		userID, name,
	).Scan(&id)
	return id, err
}

func (r *Repository) Insert(ctx context.Context, userID, symbolID, brokerID string, req CreateTradeRequest) (Trade, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return Trade{}, err
	}

	var id string
	err = r.Pool.QueryRow(ctx,
		`INSERT INTO trades (user_id, date, day, time, symbol_id, segment, trade_type,
			entry_price, quantity, stoploss_price, exit_price, net_profit,
			is_rules_followed, remark_on_trade, broker_id, brokerage)
		 VALUES ($1, $2, $3, $4, $5, $6, $7,
			$8::numeric, $9, $10::numeric, $11::numeric, $12::numeric,
			$13, $14, $15, $16::numeric)
		 RETURNING id::text`,
		userID, date, req.Day, req.Time, symbolID, req.Segment, req.TradeType,
		req.EntryPrice.String(), req.Quantity, req.StoplossPrice.String(), req.ExitPrice.String(), req.NetProfit.String(),
		*req.IsRulesFollowed, req.RemarkOnTrade, brokerID, req.Brokerage.String(),
	).Scan(&id)
	if err != nil {
		return Trade{}, err
	}

	t, _, err := r.GetByID(ctx, id)
	return t, err
}

// escapeLike escapes pattern metacharacters in a user-supplied search term
// so %, _ and backslash match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var sortColumns = map[string]string{
	"createdAt": "t.created_at",
	"updatedAt": "t.updated_at",
	"date":      "t.date",
	"netProfit": "t.net_profit",
	"quantity":  "t.quantity",
	"time":      "t.time",
	"symbol":    "s.name",
}

// List returns one page of trades with symbol and broker names joined in,
// plus the total matching count.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]Trade, int64, error) {
	where := []string{"t.user_id = $1"}
	args := []any{q.UserID}

	if q.Day != "" {
		args = append(args, q.Day)
		where = append(where, fmt.Sprintf("t.day = $%d", len(args)))
	}
	if q.Symbol != "" {
		args = append(args, "%"+escapeLike(q.Symbol)+"%")
		where = append(where, fmt.Sprintf(`s.name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if q.Segment != "" {
		args = append(args, q.Segment)
		where = append(where, fmt.Sprintf("t.segment = $%d", len(args)))
	}
	if q.TradeType != "" {
		args = append(args, q.TradeType)
		where = append(where, fmt.Sprintf("t.trade_type = $%d", len(args)))
	}
	if q.IsRulesFollowed != nil {
		args = append(args, *q.IsRulesFollowed)
		where = append(where, fmt.Sprintf("t.is_rules_followed = $%d", len(args)))
	}
	if q.From != nil && q.To != nil {
		args = append(args, *q.From, *q.To)
		where = append(where, fmt.Sprintf("t.created_at >= $%d AND t.created_at <= $%d", len(args)-1, len(args)))
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "t.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		direction = "ASC"
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) `+tradeJoins+` WHERE `+whereClause, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.Limit, q.Offset)
	rows, err := r.Pool.Query(ctx,
		fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s %s, t.id ASC LIMIT $%d OFFSET $%d`,
			tradeColumns, tradeJoins, whereClause, column, direction, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Trade, 0)
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// GetByID fetches a trade by id alone; callers assert ownership before
// acting on the result.
func (r *Repository) GetByID(ctx context.Context, id string) (Trade, bool, error) {
	t, err := scanTrade(r.Pool.QueryRow(ctx,
		`SELECT `+tradeColumns+` `+tradeJoins+` WHERE t.id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Trade{}, false, nil
	}
	if err != nil {
		return Trade{}, false, err
	}
	return t, true, nil
}

func (r *Repository) Update(ctx context.Context, id, symbolID, brokerID string, req UpdateTradeRequest) (Trade, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return Trade{}, err
	}

	_, err = r.Pool.Exec(ctx,
		`UPDATE trades
		 SET date = $2, day = $3, time = $4, symbol_id = $5, segment = $6, trade_type = $7,
		     entry_price = $8::numeric, quantity = $9, stoploss_price = $10::numeric,
		     exit_price = $11::numeric, net_profit = $12::numeric, is_rules_followed = $13,
		     remark_on_trade = $14, broker_id = $15, brokerage = $16::numeric, updated_at = $17
		 WHERE id = $1`,
		id, date, req.Day, req.Time, symbolID, req.Segment, req.TradeType,
		req.EntryPrice.String(), req.Quantity, req.StoplossPrice.String(),
		req.ExitPrice.String(), req.NetProfit.String(), *req.IsRulesFollowed,
		req.RemarkOnTrade, brokerID, req.Brokerage.String(), time.Now(),
	)
	if err != nil {
		return Trade{}, err
	}

	t, _, err := r.GetByID(ctx, id)
	return t, err
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM trades WHERE id = $1`, id)
	return err
}
