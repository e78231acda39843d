package trade

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/KRN-011/OwnDiary-Backend/internal/apperr"
	"github.com/KRN-011/OwnDiary-Backend/internal/auth"
	"github.com/KRN-011/OwnDiary-Backend/internal/pagination"
	"github.com/KRN-011/OwnDiary-Backend/internal/respond"
)

// Store is the persistence surface the handler needs.
type Store interface {
	UpsertSymbol(ctx context.Context, userID, name string) (string, error)
	UpsertBroker(ctx context.Context, userID, name string) (string, error)
	Insert(ctx context.Context, userID, symbolID, brokerID string, req CreateTradeRequest) (Trade, error)
	List(ctx context.Context, q ListQuery) ([]Trade, int64, error)
	GetByID(ctx context.Context, id string) (Trade, bool, error)
	Update(ctx context.Context, id, symbolID, brokerID string, req UpdateTradeRequest) (Trade, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	Store     Store
	Analytics *Analytics
}

func NewHandler(store Store, analytics *Analytics) *Handler {
	return &Handler{Store: store, Analytics: analytics}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	var req CreateTradeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := validateCreate(req); err != nil {
		return err
	}

	ctx := userContext(c)
	symbolID, brokerID, err := h.resolveRefs(ctx, userID, req)
	if err != nil {
		return err
	}

	created, err := h.Store.Insert(ctx, userID, symbolID, brokerID, req)
	if err != nil {
		return apperr.FromStore(err, "Trade not found")
	}

	return respond.Created(c, "Trade Created Successfully", created)
}

func (h *Handler) GetAll(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	params := pagination.Parse(c.Query("page"), c.Query("limit"))
	q := ListQuery{
		UserID:    userID,
		Day:       strings.TrimSpace(c.Query("day")),
		Symbol:    strings.TrimSpace(c.Query("symbol")),
		Segment:   strings.TrimSpace(c.Query("segment")),
		TradeType: strings.TrimSpace(c.Query("tradeType")),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Limit:     params.Limit,
		Offset:    params.Offset(),
	}

	if raw := strings.TrimSpace(c.Query("isRulesFollowed")); raw != "" {
		followed := strings.EqualFold(raw, "true")
		q.IsRulesFollowed = &followed
	}
	if window, err := parseWindow(c.Query("startDate"), c.Query("endDate"), false); err != nil {
		return err
	} else if window != nil {
		q.From = &window.From
		q.To = &window.To
	}

	trades, total, err := h.Store.List(userContext(c), q)
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.Paginated(c, "Trades Fetched Successfully", trades, respond.Meta{
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: params.TotalPages(total),
	})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	var req UpdateTradeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := validateCreate(req); err != nil {
		return err
	}

	ctx := userContext(c)
	if _, err := h.assertOwned(ctx, c.Params("id"), userID); err != nil {
		return err
	}

	symbolID, brokerID, err := h.resolveRefs(ctx, userID, req)
	if err != nil {
		return err
	}

	updated, err := h.Store.Update(ctx, c.Params("id"), symbolID, brokerID, req)
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.OK(c, "Trade Updated Successfully", updated)
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

	return respond.OK(c, "Trade Deleted Successfully", deleted)
}

func (h *Handler) Symbols(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	symbols, err := h.Analytics.Symbols(userContext(c), userID, c.Query("search"))
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.OK(c, "Trade Symbols Fetched Successfully", symbols)
}

// resolveRefs maps the symbol and broker names to per-user ids, lazily
// creating missing rows. The upserts are atomic; a duplicate-key race
// surfaces as a conflict error.
func (h *Handler) resolveRefs(ctx context.Context, userID string, req CreateTradeRequest) (symbolID, brokerID string, err error) {
	symbolID, err = h.Store.UpsertSymbol(ctx, userID, strings.ToUpper(strings.TrimSpace(req.Symbol)))
	if err != nil {
		if apperr.IsDuplicate(err) {
			return "", "", apperr.Conflict("Symbol already exists")
		}
		return "", "", apperr.Internal(err)
	}

	brokerID, err = h.Store.UpsertBroker(ctx, userID, strings.TrimSpace(req.Broker))
	if err != nil {
		if apperr.IsDuplicate(err) {
			return "", "", apperr.Conflict("Broker already exists")
		}
		return "", "", apperr.Internal(err)
	}
	return symbolID, brokerID, nil
}

func (h *Handler) assertOwned(ctx context.Context, id, userID string) (Trade, error) {
	if uuid.Validate(id) != nil {
		return Trade{}, apperr.NotFound("Trade not found")
	}
	t, found, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return Trade{}, apperr.Internal(err)
	}
	if !found {
		return Trade{}, apperr.NotFound("Trade not found")
	}
	if t.UserID != userID {
		return Trade{}, apperr.Forbidden("Unauthorized")
	}
	return t, nil
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
