package expense

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/KRN-011/OwnDiary-Backend/internal/apperr"
	"github.com/KRN-011/OwnDiary-Backend/internal/auth"
	"github.com/KRN-011/OwnDiary-Backend/internal/category"
	"github.com/KRN-011/OwnDiary-Backend/internal/pagination"
	"github.com/KRN-011/OwnDiary-Backend/internal/respond"
)

// Store is the persistence surface the handler needs.
type Store interface {
	Insert(ctx context.Context, userID string, req CreateExpenseRequest) (Expense, error)
	InsertSubExpenses(ctx context.Context, userID, parentID string, subs []SubExpenseInput) ([]Expense, error)
	List(ctx context.Context, q ListQuery) ([]Expense, int64, error)
	ListChildren(ctx context.Context, parentID string) ([]Expense, error)
	GetByID(ctx context.Context, id string) (Expense, bool, error)
	Update(ctx context.Context, id string, req UpdateExpenseRequest) (Expense, error)
	Delete(ctx context.Context, id string) error
}

// CategoryStore is the slice of the category repository needed to validate
// references.
type CategoryStore interface {
	GetByID(ctx context.Context, id string) (category.Category, bool, error)
}

type Handler struct {
	Store      Store
	Categories CategoryStore
	Analytics  *Analytics
}

func NewHandler(store Store, categories CategoryStore, analytics *Analytics) *Handler {
	return &Handler{Store: store, Categories: categories, Analytics: analytics}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	var req CreateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return apperr.Validation("Title is required")
	}
	if req.Amount.IsZero() {
		return apperr.Validation("Amount is required")
	}

	ctx := userContext(c)
	if req.CategoryID != nil && *req.CategoryID != "" {
		if err := h.assertCategoryOwned(ctx, *req.CategoryID, userID); err != nil {
			return err
		}
	} else {
		req.CategoryID = nil
	}

	created, err := h.Store.Insert(ctx, userID, req)
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.Created(c, "Expense Created Successfully", created)
}

func (h *Handler) CreateSubExpenses(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	var req CreateSubExpensesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	if strings.TrimSpace(req.ParentID) == "" {
		return apperr.Validation("Parent ID is required")
	}
	if uuid.Validate(req.ParentID) != nil {
		return apperr.NotFound("Parent Expense not found")
	}
	if len(req.SubExpenses) == 0 {
		return apperr.Validation("Sub Expenses Data is required")
	}
	for _, sub := range req.SubExpenses {
		if strings.TrimSpace(sub.Title) == "" {
			return apperr.Validation("Title is required")
		}
		if sub.Amount.IsZero() {
			return apperr.Validation("Amount is required")
		}
	}

	ctx := userContext(c)
	parent, found, err := h.Store.GetByID(ctx, req.ParentID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !found {
		return apperr.NotFound("Parent Expense not found")
	}
	if parent.UserID != userID {
		return apperr.Forbidden("Unauthorized")
	}
	// Sub-expenses of sub-expenses would make the hierarchy deeper than one
	// level.
	if parent.ParentID != nil {
		return apperr.Validation("Parent Expense must be a top-level expense")
	}

	created, err := h.Store.InsertSubExpenses(ctx, userID, parent.ID, req.SubExpenses)
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.Created(c, "Sub Expenses Created Successfully", created)
}

func (h *Handler) GetAll(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	params := pagination.Parse(c.Query("page"), c.Query("limit"))
	q := ListQuery{
		UserID:     userID,
		CategoryID: strings.TrimSpace(c.Query("categoryId")),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
		Limit:      params.Limit,
		Offset:     params.Offset(),
	}

	if window, err := parseWindow(c.Query("startDate"), c.Query("endDate"), false); err != nil {
		return err
	} else if window != nil {
		q.From = &window.From
		q.To = &window.To
	}

	expenses, total, err := h.Store.List(userContext(c), q)
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.Paginated(c, "Expenses Fetched Successfully", expenses, respond.Meta{
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: params.TotalPages(total),
	})
}

func (h *Handler) SubExpenses(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	ctx := userContext(c)
	parent, err := h.assertOwned(ctx, c.Params("id"), userID)
	if err != nil {
		return err
	}

	children, err := h.Store.ListChildren(ctx, parent.ID)
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.OK(c, "Sub Expenses Fetched Successfully", children)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	var req UpdateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return apperr.Validation("Title is required")
	}
	if req.Amount.IsZero() {
		return apperr.Validation("Amount is required")
	}

	ctx := userContext(c)
	if _, err := h.assertOwned(ctx, c.Params("id"), userID); err != nil {
		return err
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		if err := h.assertCategoryOwned(ctx, *req.CategoryID, userID); err != nil {
			return err
		}
	} else {
		req.CategoryID = nil
	}

	updated, err := h.Store.Update(ctx, c.Params("id"), req)
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.OK(c, "Expense Updated Successfully", updated)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	ctx := userContext(c)
	deleted, err := h.assertOwned(ctx, c.Params("id"), userID)
	if err != nil {
		return err
	}

	if err := h.Store.Delete(ctx, deleted.ID); err != nil {
		return apperr.Internal(err)
	}

	return respond.OK(c, "Expense Deleted Successfully", deleted)
}

func (h *Handler) assertOwned(ctx context.Context, id, userID string) (Expense, error) {
	if uuid.Validate(id) != nil {
		return Expense{}, apperr.NotFound("Expense not found")
	}
	e, found, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return Expense{}, apperr.Internal(err)
	}
	if !found {
		return Expense{}, apperr.NotFound("Expense not found")
	}
	if e.UserID != userID {
		return Expense{}, apperr.Forbidden("Unauthorized")
	}
	return e, nil
}

func (h *Handler) assertCategoryOwned(ctx context.Context, categoryID, userID string) error {
	if uuid.Validate(categoryID) != nil {
		return apperr.Validation("Category not found")
	}
	cat, found, err := h.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !found || cat.UserID != userID {
		return apperr.Validation("Category not found")
	}
	return nil
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// parseWindow validates a startDate/endDate query pair. The end date is
// extended to the last instant of its day so the range stays inclusive.
// When required is false an absent pair means "no filter".
func parseWindow(start, end string, required bool) (*struct{ From, To time.Time }, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)

	if start == "" || end == "" {
		if required {
			return nil, apperr.Validation("startDate and endDate are required")
		}
		return nil, nil
	}

	from, err := time.ParseInLocation("2006-01-02", start, time.Local)
	if err != nil {
		return nil, apperr.Validation("startDate must be YYYY-MM-DD")
	}
	to, err := time.ParseInLocation("2006-01-02", end, time.Local)
	if err != nil {
		return nil, apperr.Validation("endDate must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, apperr.Validation("endDate must not be before startDate")
	}

	to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &struct{ From, To time.Time }{From: from, To: to}, nil
}
