package expense

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KRN-011/OwnDiary-Backend/internal/apperr"
	"github.com/KRN-011/OwnDiary-Backend/internal/auth"
	"github.com/KRN-011/OwnDiary-Backend/internal/period"
	"github.com/KRN-011/OwnDiary-Backend/internal/respond"
)

func (h *Handler) CardsAnalytics(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	cards, err := h.Analytics.Cards(userContext(c), userID)
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.OK(c, "Expense Cards Analytics Fetched Successfully", cards)
}

func (h *Handler) GraphAnalytics(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	window, err := parseWindow(c.Query("startDate"), c.Query("endDate"), true)
	if err != nil {
		return err
	}

	points, err := h.Analytics.Graph(userContext(c), userID, period.Window{From: window.From, To: window.To})
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.OK(c, "Expense Graph Analytics Fetched Successfully", points)
}

func (h *Handler) ListAnalytics(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	list, err := h.Analytics.List(userContext(c), userID)
	if err != nil {
		return apperr.Internal(err)
	}

	return respond.OK(c, "Expense List Analytics Fetched Successfully", list)
}
