package category

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/KRN-011/OwnDiary-Backend/internal/apperr"
	"github.com/KRN-011/OwnDiary-Backend/internal/auth"
	"github.com/KRN-011/OwnDiary-Backend/internal/respond"
)

// Store is the persistence surface the handler needs.
type Store interface {
	Insert(ctx context.Context, userID, name, icon string) (Category, error)
	ListByUser(ctx context.Context, userID string) ([]Category, error)
	GetByID(ctx context.Context, id string) (Category, bool, error)
	Update(ctx context.Context, id, name, icon string) (Category, error)
	Delete(ctx context.Context, id string) error
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

	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("Name is required")
	}

	cat, err := h.Store.Insert(userContext(c), userID, req.Name, req.Icon)
	if err != nil {
		if apperr.IsDuplicate(err) {
			return apperr.Conflict("Category already exists")
		}
		return apperr.Internal(err)
	}

	return respond.Created(c, "Category created successfully", cat)
}

func (h *Handler) GetAll(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	categories, err := h.Store.ListByUser(userContext(c), userID)
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.OK(c, "Categories fetched successfully", categories)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	var req UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("Name is required")
	}

	ctx := userContext(c)
	if err := h.assertOwned(ctx, c.Params("id"), userID); err != nil {
		return err
	}

	updated, err := h.Store.Update(ctx, c.Params("id"), req.Name, req.Icon)
	if err != nil {
		if apperr.IsDuplicate(err) {
			return apperr.Conflict("Category already exists")
		}
		return apperr.Internal(err)
	}

	return respond.OK(c, "Category updated successfully", updated)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	ctx := userContext(c)
	if err := h.assertOwned(ctx, c.Params("id"), userID); err != nil {
		return err
	}

	if err := h.Store.Delete(ctx, c.Params("id")); err != nil {
		return apperr.Internal(err)
	}

	return respond.OK(c, "Category deleted successfully", nil)
}

// assertOwned checks existence before ownership: unknown ids are 404s,
// someone else's ids are 403s. Malformed ids short-circuit as 404 rather
// than reaching the database.
func (h *Handler) assertOwned(ctx context.Context, id, userID string) error {
	if uuid.Validate(id) != nil {
		return apperr.NotFound("Category not found")
	}
	cat, found, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !found {
		return apperr.NotFound("Category not found")
	}
	if cat.UserID != userID {
		return apperr.Forbidden("Unauthorized")
	}
	return nil
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
