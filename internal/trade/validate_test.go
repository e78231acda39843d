package trade

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/KRN-011/OwnDiary-Backend/internal/apperr"
)

func validRequest() CreateTradeRequest {
	net := decimal.RequireFromString("120.50")
	rules := true
	return CreateTradeRequest{
		Date:            "2024-05-06",
		Day:             "Monday",
		Time:            "09:30",
		Symbol:          "AAPL",
		Segment:         "equity",
		TradeType:       "buy",
		EntryPrice:      decimal.RequireFromString("180.10"),
		Quantity:        10,
		StoplossPrice:   decimal.RequireFromString("175"),
		ExitPrice:       decimal.RequireFromString("192.15"),
		NetProfit:       &net,
		IsRulesFollowed: &rules,
		RemarkOnTrade:   "followed the plan",
		Broker:          "Zerodha",
		Brokerage:       decimal.RequireFromString("20"),
	}
}

func TestValidateCreateAcceptsValidRequest(t *testing.T) {
	if err := validateCreate(validRequest()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestValidateCreateZeroNetProfitAllowed(t *testing.T) {
	req := validRequest()
	zero := decimal.Zero
	req.NetProfit = &zero
	if err := validateCreate(req); err != nil {
		t.Fatalf("breakeven trade rejected: %v", err)
	}
}

func TestValidateCreateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateTradeRequest)
	}{
		{"missing date", func(r *CreateTradeRequest) { r.Date = "" }},
		{"bad date format", func(r *CreateTradeRequest) { r.Date = "06-05-2024" }},
		{"missing day", func(r *CreateTradeRequest) { r.Day = "" }},
		{"unknown day", func(r *CreateTradeRequest) { r.Day = "Funday" }},
		{"missing time", func(r *CreateTradeRequest) { r.Time = "  " }},
		{"missing symbol", func(r *CreateTradeRequest) { r.Symbol = "" }},
		{"missing segment", func(r *CreateTradeRequest) { r.Segment = "" }},
		{"unknown segment", func(r *CreateTradeRequest) { r.Segment = "crypto" }},
		{"missing trade type", func(r *CreateTradeRequest) { r.TradeType = "" }},
		{"unknown trade type", func(r *CreateTradeRequest) { r.TradeType = "hold" }},
		{"zero entry price", func(r *CreateTradeRequest) { r.EntryPrice = decimal.Zero }},
		{"zero quantity", func(r *CreateTradeRequest) { r.Quantity = 0 }},
		{"negative quantity", func(r *CreateTradeRequest) { r.Quantity = -3 }},
		{"zero stoploss", func(r *CreateTradeRequest) { r.StoplossPrice = decimal.Zero }},
		{"zero exit price", func(r *CreateTradeRequest) { r.ExitPrice = decimal.Zero }},
		{"nil net profit", func(r *CreateTradeRequest) { r.NetProfit = nil }},
		{"nil rules flag", func(r *CreateTradeRequest) { r.IsRulesFollowed = nil }},
		{"missing remark", func(r *CreateTradeRequest) { r.RemarkOnTrade = "" }},
		{"missing broker", func(r *CreateTradeRequest) { r.Broker = " " }},
		{"negative brokerage", func(r *CreateTradeRequest) { r.Brokerage = decimal.RequireFromString("-1") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			err := validateCreate(req)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			var appErr *apperr.Error
			if !errors.As(err, &appErr) || appErr.Status != 400 {
				t.Fatalf("expected a 400 validation error, got %v", err)
			}
		})
	}
}
