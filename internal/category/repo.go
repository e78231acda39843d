package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) Insert(ctx context.Context, userID, name, icon string) (Category, error) {
	var cat Category
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO expense_categories (user_id, name, icon)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, name, icon, created_at`,
		userID, name, icon,
	).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Icon, &cat.CreatedAt)
	if err != nil {
		return Category{}, err
	}
	return cat, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Category, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, user_id, name, icon, created_at
		 FROM expense_categories
		 WHERE user_id = $1
		 ORDER BY name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Icon, &cat.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

// GetByID fetches a category by id alone; callers assert ownership before
// acting on the result.
func (r *Repository) GetByID(ctx context.Context, id string) (Category, bool, error) {
	var cat Category
	err := r.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, icon, created_at
		 FROM expense_categories
		 WHERE id = $1`,
		id,
	).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Icon, &cat.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, false, nil
	}
	if err != nil {
		return Category{}, false, err
	}
	return cat, true, nil
}

func (r *Repository) Update(ctx context.Context, id, name, icon string) (Category, error) {
	var cat Category
	err := r.Pool.QueryRow(ctx,
		`UPDATE expense_categories
		 SET name = $2, icon = $3
		 WHERE id = $1
		 RETURNING id, user_id, name, icon, created_at`,
		id, name, icon,
	).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Icon, &cat.CreatedAt)
	if err != nil {
		return Category{}, err
	}
	return cat, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM expense_categories WHERE id = $1`, id)
	return err
}
