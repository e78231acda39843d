package expense

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

const expenseColumns = `id::text, user_id::text, title, description, amount::text,
	COALESCE(image_attachments, '{}'), category_id::text, parent_id::text, created_at, updated_at`

func scanExpense(row pgx.Row) (Expense, error) {
	var e Expense
	var amount string
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Title,
		&e.Description,
		&amount,
		&e.ImageAttachments,
		&e.CategoryID,
		&e.ParentID,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return Expense{}, err
	}
	e.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return Expense{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return e, nil
}

func (r *Repository) Insert(ctx context.Context, userID string, req CreateExpenseRequest) (Expense, error) {
	row := r.Pool.QueryRow(ctx,
		`INSERT INTO expenses (user_id, title, description, amount, image_attachments, category_id)
		 VALUES ($1, $2, $3, $4::numeric, $5, $6)
		 RETURNING `+expenseColumns,
		userID, req.Title, req.Description, req.Amount.String(), req.ImageAttachments, req.CategoryID,
	)
	return scanExpense(row)
}

// InsertSubExpenses creates all children of one parent in a single
// transaction so a failed entry does not leave a partial batch behind.
func (r *Repository) InsertSubExpenses(ctx context.Context, userID, parentID string, subs []SubExpenseInput) ([]Expense, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := make([]Expense, 0, len(subs))
	for _, sub := range subs {
		row := tx.QueryRow(ctx,
			`INSERT INTO expenses (user_id, title, description, amount, image_attachments, parent_id)
			 VALUES ($1, $2, $3, $4::numeric, $5, $6)
			 RETURNING `+expenseColumns,
			userID, sub.Title, sub.Description, sub.Amount.String(), sub.ImageAttachments, parentID,
		)
		e, err := scanExpense(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"amount":    "amount",
	"title":     "title",
}

// List returns one page of top-level expenses plus the total matching count.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]Expense, int64, error) {
	where := []string{"user_id = $1", "parent_id IS NULL"}
	args := []any{q.UserID}

	if q.CategoryID != "" {
		args = append(args, q.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if q.From != nil && q.To != nil {
		args = append(args, *q.From, *q.To)
		where = append(where, fmt.Sprintf("created_at >= $%d AND created_at <= $%d", len(args)-1, len(args)))
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		direction = "ASC"
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM expenses WHERE `+whereClause, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.Limit, q.Offset)
	rows, err := r.Pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM expenses WHERE %s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d`,
			expenseColumns, whereClause, column, direction, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// ListChildren returns the sub-expenses of one parent.
func (r *Repository) ListChildren(ctx context.Context, parentID string) ([]Expense, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE parent_id = $1 ORDER BY created_at ASC`,
		parentID,
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

// GetByID fetches an expense by id alone; callers assert ownership before
// acting on the result.
func (r *Repository) GetByID(ctx context.Context, id string) (Expense, bool, error) {
	e, err := scanExpense(r.Pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, false, nil
	}
	if err != nil {
		return Expense{}, false, err
	}
	return e, true, nil
}

func (r *Repository) Update(ctx context.Context, id string, req UpdateExpenseRequest) (Expense, error) {
	row := r.Pool.QueryRow(ctx,
		`UPDATE expenses
		 SET title = $2, description = $3, amount = $4::numeric, image_attachments = $5,
		     category_id = $6, updated_at = $7
		 WHERE id = $1
		 RETURNING `+expenseColumns,
		id, req.Title, req.Description, req.Amount.String(), req.ImageAttachments, req.CategoryID, time.Now(),
	)
	return scanExpense(row)
}

// Delete removes an expense together with its sub-expenses.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 OR parent_id = $1`, id)
	return err
}
