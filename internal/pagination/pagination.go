package pagination

import "strconv"

const defaultLimit = 10

// Params is the normalized page/limit pair parsed from query strings.
type Params struct {
	Page  int
	Limit int
}

// Parse normalizes raw page/limit query values. Anything missing or
// malformed falls back to page 1 / limit 10, both clamped to at least 1.
func Parse(rawPage, rawLimit string) Params {
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit < 1 {
		limit = defaultLimit
	}

	return Params{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns the page count for total rows, rounding up.
func (p Params) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return int(pages)
}
