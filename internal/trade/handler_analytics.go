package trade

import (
	"strings"
	"time"

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

	return respond.OK(c, "Trade Cards Analytics Fetched Successfully", cards)
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

	return respond.OK(c, "Trade Graph Analytics Fetched Successfully", points)
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

	return respond.OK(c, "Trade List Analytics Fetched Successfully", list)
}

// parseWindow validates a startDate/endDate query pair. The end date is
// extended to the last instant of its day so the range stays inclusive.
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
