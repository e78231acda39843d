package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/KRN-011/OwnDiary-Backend/internal/apperr"
	"github.com/KRN-011/OwnDiary-Backend/internal/respond"
)

// Store is the persistence surface the handler needs.
type Store interface {
	CreateUser(ctx context.Context, username, email, hashedPassword string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, bool, error)
}

type Handler struct {
	Store  Store
	Tokens *Tokens
}

func NewHandler(store Store, tokens *Tokens) *Handler {
	return &Handler{Store: store, Tokens: tokens}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" {
		return apperr.Validation("Username is required")
	}
	if req.Email == "" {
		return apperr.Validation("Email is required")
	}
	if req.Password == "" {
		return apperr.Validation("Password is required")
	}

	ctx := userContext(c)

	if _, exists, err := h.Store.FindByEmail(ctx, req.Email); err != nil {
		return apperr.Internal(err)
	} else if exists {
		return apperr.Conflict("User Already Exists")
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return apperr.Internal(err)
	}

	user, err := h.Store.CreateUser(ctx, req.Username, req.Email, hashed)
	if err != nil {
		// Races with a concurrent register land on the unique email
		// constraint; surface them as conflicts, not internals.
		if apperr.IsDuplicate(err) {
			return apperr.Conflict("User Already Exists")
		}
		return apperr.Internal(err)
	}

	return respond.Created(c, "User Registered Successfully", user)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	user, exists, err := h.Store.FindByEmail(userContext(c), strings.TrimSpace(req.Email))
	if err != nil {
		return apperr.Internal(err)
	}
	if !exists {
		return apperr.NotFound("User Not Found")
	}

	if !ComparePassword(req.Password, user.HashedPassword) {
		return apperr.Unauthorized("Invalid Credentials")
	}

	token, err := h.Tokens.Issue(Identity{ID: user.ID, Username: user.Username, Email: user.Email})
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.OK(c, "User Logged in Successfully", LoginResponse{User: user, Token: token})
}

// Logout is stateless: the token simply expires. The endpoint exists so
// clients have a uniform place to end a session.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if strings.TrimSpace(c.Get("Authorization")) == "" {
		return apperr.Unauthorized("Unauthorized")
	}
	return respond.OK(c, "User Logged out Successfully", nil)
}

func (h *Handler) CurrentUser(c *fiber.Ctx) error {
	identity, err := IdentityFromCtx(c)
	if err != nil {
		return err
	}
	return respond.OK(c, "User Fetched Successfully", identity)
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
