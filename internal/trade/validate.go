package trade

import (
	"strings"
	"time"

	"github.com/KRN-011/OwnDiary-Backend/internal/apperr"
)

var days = map[string]bool{
	"Monday":    true,
	"Tuesday":   true,
	"Wednesday": true,
	"Thursday":  true,
	"Friday":    true,
	"Saturday":  true,
	"Sunday":    true,
}

var segments = map[string]bool{
	"equity":    true,
	"futures":   true,
	"options":   true,
	"commodity": true,
	"currency":  true,
}

var tradeTypes = map[string]bool{
	"buy":  true,
	"sell": true,
}

// validateCreate checks a create/update trade payload. Every field is
// required; enum fields must also hold a known value.
func validateCreate(req CreateTradeRequest) error {
	if strings.TrimSpace(req.Date) == "" {
		return apperr.Validation("Date is required")
	}
	if _, err := time.ParseInLocation("2006-01-02", req.Date, time.Local); err != nil {
		return apperr.Validation("Date must be YYYY-MM-DD")
	}
	if req.Day == "" {
		return apperr.Validation("Day is required")
	}
	if !days[req.Day] {
		return apperr.Validation("Day must be a weekday name")
	}
	if strings.TrimSpace(req.Time) == "" {
		return apperr.Validation("Time is required")
	}
	if strings.TrimSpace(req.Symbol) == "" {
		return apperr.Validation("Symbol is required")
	}
	if req.Segment == "" {
		return apperr.Validation("Segment is required")
	}
	if !segments[req.Segment] {
		return apperr.Validation("Segment is not a known segment")
	}
	if req.TradeType == "" {
		return apperr.Validation("Trade Type is required")
	}
	if !tradeTypes[req.TradeType] {
		return apperr.Validation("Trade Type must be buy or sell")
	}
	if req.EntryPrice.IsZero() {
		return apperr.Validation("Entry Price is required")
	}
	if req.Quantity <= 0 {
		return apperr.Validation("Quantity is required")
	}
	if req.StoplossPrice.IsZero() {
		return apperr.Validation("Stop Loss Price is required")
	}
	if req.ExitPrice.IsZero() {
		return apperr.Validation("Exit Price is required")
	}
	if req.NetProfit == nil {
		return apperr.Validation("Net Profit is required")
	}
	if req.IsRulesFollowed == nil {
		return apperr.Validation("Is Rules Followed is required")
	}
	if strings.TrimSpace(req.RemarkOnTrade) == "" {
		return apperr.Validation("Remark On Trade is required")
	}
	if strings.TrimSpace(req.Broker) == "" {
		return apperr.Validation("Broker is required")
	}
	if req.Brokerage.IsNegative() {
		return apperr.Validation("Brokerage must not be negative")
	}
	return nil
}
