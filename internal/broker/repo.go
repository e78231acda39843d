package broker

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) Insert(ctx context.Context, userID, name string, isDefault bool) (Broker, error) {
	var b Broker
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO brokers (user_id, name, is_default)
		 VALUES ($1, $2, $3)
		 RETURNING id::text, user_id::text, name, is_default, created_at`,
		userID, name, isDefault,
	).Scan(&b.ID, &b.UserID, &b.Name, &b.IsDefault, &b.CreatedAt)
	if err != nil {
		return Broker{}, err
	}
	return b, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Broker, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id::text, user_id::text, name, is_default, created_at
		 FROM brokers
		 WHERE user_id = $1
		 ORDER BY name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Broker, 0)
	for rows.Next() {
		var b Broker
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.IsDefault, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
