package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the token payload: enough to identify the caller without a
// user lookup on every request.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Tokens issues and verifies the opaque session tokens (HS256 JWTs).
type Tokens struct {
	Secret []byte
	TTL    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{Secret: []byte(secret), TTL: ttl}
}

func (t *Tokens) Issue(identity Identity) (string, error) {
	claims := jwt.MapClaims{
		"id":       identity.ID,
		"username": identity.Username,
		"email":    identity.Email,
		"exp":      time.Now().Add(t.TTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

func (t *Tokens) Verify(raw string) (Identity, error) {
	token, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.Secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	id, _ := claims["id"].(string)
	if strings.TrimSpace(id) == "" {
		return Identity{}, ErrInvalidToken
	}
	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)

	return Identity{ID: id, Username: username, Email: email}, nil
}
