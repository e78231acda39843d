package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

type Trade struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Date            time.Time       `json:"date"`
	Day             string          `json:"day"`
	Time            string          `json:"time"`
	SymbolID        *string         `json:"symbolId,omitempty"`
	SymbolName      *string         `json:"symbol,omitempty"`
	Segment         string          `json:"segment"`
	TradeType       string          `json:"tradeType"`
	EntryPrice      decimal.Decimal `json:"entryPrice"`
	Quantity        int64           `json:"quantity"`
	StoplossPrice   decimal.Decimal `json:"stoplossPrice"`
	ExitPrice       decimal.Decimal `json:"exitPrice"`
	NetProfit       decimal.Decimal `json:"netProfit"`
	IsRulesFollowed bool            `json:"isRulesFollowed"`
	RemarkOnTrade   string          `json:"remarkOnTrade"`
	BrokerID        *string         `json:"brokerId,omitempty"`
	BrokerName      *string         `json:"broker,omitempty"`
	Brokerage       decimal.Decimal `json:"brokerage"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CreateTradeRequest carries symbol and broker as plain names; both are
// resolved to per-user records on create, lazily creating missing ones.
type CreateTradeRequest struct {
	Date            string           `json:"date"` // YYYY-MM-DD
	Day             string           `json:"day"`
	Time            string           `json:"time"`
	Symbol          string           `json:"symbol"`
	Segment         string           `json:"segment"`
	TradeType       string           `json:"tradeType"`
	EntryPrice      decimal.Decimal  `json:"entryPrice"`
	Quantity        int64            `json:"quantity"`
	StoplossPrice   decimal.Decimal  `json:"stoplossPrice"`
	ExitPrice       decimal.Decimal  `json:"exitPrice"`
	NetProfit       *decimal.Decimal `json:"netProfit"`
	IsRulesFollowed *bool            `json:"isRulesFollowed"`
	RemarkOnTrade   string           `json:"remarkOnTrade"`
	Broker          string           `json:"broker"`
	Brokerage       decimal.Decimal  `json:"brokerage"`
}

type UpdateTradeRequest = CreateTradeRequest

// ListQuery captures the get-all filters after validation.
type ListQuery struct {
	UserID          string
	Day             string
	Symbol          string
	Segment         string
	TradeType       string
	IsRulesFollowed *bool
	From            *time.Time
	To              *time.Time
	SortBy          string
	SortOrder       string
	Limit           int
	Offset          int
}

type Symbol struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}
