package reports

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/KRN-011/OwnDiary-Backend/internal/apperr"
	"github.com/KRN-011/OwnDiary-Backend/internal/auth"
	"github.com/KRN-011/OwnDiary-Backend/internal/expense"
	"github.com/KRN-011/OwnDiary-Backend/internal/period"
)

// Store is the slice of the expense repository the statement needs.
type Store interface {
	ListCreatedBetween(ctx context.Context, userID string, w period.Window) ([]expense.Expense, error)
	SumBetween(ctx context.Context, userID string, w period.Window) (decimal.Decimal, error)
}

type Handler struct {
	Store Store
	Now   func() time.Time
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store, Now: time.Now}
}

const maxStatementRows = 200

// ExpenseStatement renders the user's expenses for a date range as a PDF.
// Without from/to query params the range defaults to the trailing 30 days.
func (h *Handler) ExpenseStatement(c *fiber.Ctx) error {
	userID, err := auth.UserIDFromCtx(c)
	if err != nil {
		return err
	}

	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	if from == "" || to == "" {
		end := h.Now()
		from = end.AddDate(0, 0, -29).Format("2006-01-02")
		to = end.Format("2006-01-02")
	}

	start, err := time.ParseInLocation("2006-01-02", from, time.Local)
	if err != nil {
		return apperr.Validation("from must be YYYY-MM-DD")
	}
	end, err := time.ParseInLocation("2006-01-02", to, time.Local)
	if err != nil {
		return apperr.Validation("to must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return apperr.Validation("to must not be before from")
	}
	w := period.Window{From: start, To: end.AddDate(0, 0, 1).Add(-time.Nanosecond)}

	ctx := c.UserContext()
	items, err := h.Store.ListCreatedBetween(ctx, userID, w)
	if err != nil {
		return apperr.Internal(err)
	}
	total, err := h.Store.SumBetween(ctx, userID, w)
	if err != nil {
		return apperr.Internal(err)
	}

	buf, err := renderStatement(from, to, userID, items, total)
	if err != nil {
		return apperr.Internal(err)
	}

	filename := "owndiary-expenses-" + from + "-to-" + to + ".pdf"
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf)
}

func renderStatement(from, to, userID string, items []expense.Expense, total decimal.Decimal) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 48)
	pdf.SetTextColor(235, 235, 235)
	pdf.Text(25, 140, "OWNDIARY")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Expense Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Period: "+from+" to "+to)
	pdf.Ln(5)
	pdf.Cell(0, 6, "User: "+maskID(userID))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{93, 93}
	pdf.CellFormat(sumW[0], 10, "Expenses", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Total Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, intToStr(int64(len(items))), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, total.StringFixed(2), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	colW := []float64{26, 96, 30, 38}
	statementHeader(pdf, colW)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)

	for i, it := range items {
		if i >= maxStatementRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "truncated (too many rows)", "1", 1, "C", false, 0, "")
			break
		}

		if pdf.GetY() > 270 {
			pdf.AddPage()
			statementHeader(pdf, colW)
			pdf.SetFont("Helvetica", "", 9)
		}

		pdf.CellFormat(colW[0], 8, it.CreatedAt.Format("2006-01-02"), "1", 0, "C", false, 0, "")

		x := pdf.GetX()
		y := pdf.GetY()
		pdf.MultiCell(colW[1], 8, trimTo(it.Title, 90), "1", "L", false)
		usedH := pdf.GetY() - y
		pdf.SetXY(x+colW[1], y)

		pdf.CellFormat(colW[2], usedH, it.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[3], usedH, shortID(it.ID), "1", 1, "C", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated by OwnDiary "+time.Now().Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func statementHeader(pdf *gofpdf.Fpdf, colW []float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(colW[0], 8, "DATE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[1], 8, "TITLE", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[2], 8, "AMOUNT", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colW[3], 8, "ID", "1", 1, "C", true, 0, "")
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func maskID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "..." + id[len(id)-4:]
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "..."
}

func intToStr(n int64) string {
	if n == 0 {
		return "0"
	}
	var b [32]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}
