package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// FilterParams carries search and status filter values from a request.
type FilterParams struct {
	Search  string // free-text search query
	Status  string // exact status, compared case-insensitively
	Refresh bool   // refetch from the backend before rendering
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int `json:"page"`       // current page (1-indexed)
	PerPage    int `json:"perPage"`    // rows per page
	Total      int `json:"total"`      // total matching rows
	TotalPages int `json:"totalPages"` // ceil(Total / PerPage), at least 1
}

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 10

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{5, 10, 20, 50, 100}

// ParsePageParams extracts page and per_page from URL query values.
// A per_page outside PerPageOptions falls back to fallback.
// PRE: none
// POST: returns PageParams with Page >= 1 and PerPage > 0
func ParsePageParams(q url.Values, fallback int) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	if fallback < 1 {
		fallback = DefaultPerPage
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = fallback
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseFilterParams extracts q, status and refresh from URL query values.
// PRE: none
// POST: Search and Status are trimmed
func ParseFilterParams(q url.Values) FilterParams {
	return FilterParams{
		Search:  strings.TrimSpace(q.Get("q")),
		Status:  strings.TrimSpace(q.Get("status")),
		Refresh: q.Get("refresh") == "1",
	}
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: returns PageInfo with TotalPages computed; Page clamped to valid range
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page.
// POST: Returns 0 if Total is 0, otherwise Offset+1
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
// POST: Returns min(Offset+PerPage, Total)
func (p PageInfo) EndRow() int {
	end := p.Offset() + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return end
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// PageNumbers returns the page numbers to display in pagination controls.
// Shows at most 5 pages centered around the current page.
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	start := p.Page - maxButtons/2
	if start < 1 {
		start = 1
	}
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - maxButtons + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination returns true if pagination controls should be displayed.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

// Cursor is the active page of a list view. It holds no data; the page is
// clamped against the list length whenever Info or Paginate is called.
type Cursor struct {
	Page    int
	PerPage int
}

// NewCursor returns a cursor on page 1.
func NewCursor(perPage int) Cursor {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return Cursor{Page: 1, PerPage: perPage}
}

// Reset moves the cursor back to page 1.
func (c *Cursor) Reset() {
	c.Page = 1
}

// Set moves the cursor to page; values below 1 become 1.
func (c *Cursor) Set(page int) {
	if page < 1 {
		page = 1
	}
	c.Page = page
}

// Info clamps the cursor against total rows and returns the page metadata.
// POST: c.Page never points past the last page
func (c *Cursor) Info(total int) PageInfo {
	info := NewPageInfo(c.Page, c.PerPage, total)
	c.Page = info.Page
	c.PerPage = info.PerPage
	return info
}

// Paginate returns the slice of items on the cursor's page and its metadata.
// The returned slice aliases items.
func Paginate[T any](c *Cursor, items []T) ([]T, PageInfo) {
	info := c.Info(len(items))
	if len(items) == 0 {
		return items[:0], info
	}
	return items[info.Offset():info.EndRow()], info
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
