package auth

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

func (r *Repository) CreateUser(ctx context.Context, username, email, hashedPassword string) (User, error) {
	var u User
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO users (username, email, hashed_password)
		 VALUES ($1, $2, $3)
		 RETURNING id, username, email, hashed_password, created_at`,
		username, email, hashedPassword,
	).Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// FindByEmail returns the user with the given email, or ok=false when no
// such user exists.
func (r *Repository) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	var u User
	err := r.Pool.QueryRow(ctx,
		`SELECT id, username, email, hashed_password, created_at
		 FROM users
		 WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}
