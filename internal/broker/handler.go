package broker

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/KRN-011/OwnDiary-Backend/internal/apperr"
	"github.com/KRN-011/OwnDiary-Backend/internal/auth"
	"github.com/KRN-011/OwnDiary-Backend/internal/respond"
)

type Store interface {
	Insert(ctx context.Context, userID, name string, isDefault bool) (Broker, error)
	ListByUser(ctx context.Context, userID string) ([]Broker, error)
}

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	var req CreateBrokerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("Name is required")
	}

	b, err := h.Store.Insert(userContext(c), userID, req.Name, req.IsDefault)
	if err != nil {
		if apperr.IsDuplicate(err) {
			return apperr.Conflict("Broker already exists")
		}
		return apperr.Internal(err)
	}

	return respond.Created(c, "Broker created successfully", b)
}

func (h *Handler) GetAll(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	brokers, err := h.Store.ListByUser(userContext(c), userID)
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.OK(c, "Brokers fetched successfully", brokers)
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
