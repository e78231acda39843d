package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	Title            string          `json:"title"`
	Description      *string         `json:"description,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	ImageAttachments []string        `json:"imageAttachments,omitempty"`
	CategoryID       *string         `json:"categoryId,omitempty"`
	ParentID         *string         `json:"parentId,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type CreateExpenseRequest struct {
	Title            string          `json:"title"`
	Description      *string         `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	ImageAttachments []string        `json:"imageAttachments"`
	CategoryID       *string         `json:"categoryId"`
}

// SubExpenseInput is one child expense in a create-sub-expenses call. The
// parent id is a single explicit field on the request, not inferred per
// entry.
type SubExpenseInput struct {
	Title            string          `json:"title"`
	Description      *string         `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	ImageAttachments []string        `json:"imageAttachments"`
}

type CreateSubExpensesRequest struct {
	ParentID    string            `json:"parentId"`
	SubExpenses []SubExpenseInput `json:"subExpenses"`
}

type UpdateExpenseRequest struct {
	Title            string          `json:"title"`
	Description      *string         `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	ImageAttachments []string        `json:"imageAttachments"`
	CategoryID       *string         `json:"categoryId"`
}

// ListQuery captures the get-all filters after validation.
type ListQuery struct {
	UserID     string
	CategoryID string
	From       *time.Time
	To         *time.Time
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}
