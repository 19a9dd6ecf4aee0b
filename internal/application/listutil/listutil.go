// Package listutil parses list view parameters from request queries and
// paginates in-memory result sets. Rows come back from the coordination
// API as whole collections, so paging is applied after filtering rather
// than in a query.
package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 25

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 25, 50, 100}

// Params carries the parsed list view parameters of a request.
type Params struct {
	Page    int               // 1-indexed page number
	PerPage int               // rows per page
	Sort    string            // column name, "" for source order
	Dir     string            // "asc" or "desc"
	Search  string            // free-text search query, lowercased
	Filters map[string]string // exact-match filters (e.g. blood_type=O+)
}

// Parse extracts list parameters from URL query values.
// PRE: allowedSort lists sortable column names, filterKeys the allowed filters
// POST: returns Params with defaults applied; Dir is always "asc" or "desc"
func Parse(q url.Values, allowedSort, filterKeys []string) Params {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !contains(PerPageOptions, perPage) {
		perPage = DefaultPerPage
	}

	sort := q.Get("sort")
	if !containsString(allowedSort, sort) {
		sort = ""
	}
	dir := q.Get("dir")
	if dir != "asc" && dir != "desc" {
		dir = "asc"
	}

	p := Params{
		Page:    page,
		PerPage: perPage,
		Sort:    sort,
		Dir:     dir,
		Search:  strings.ToLower(strings.TrimSpace(q.Get("q"))),
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := q.Get(key); v != "" {
			p.Filters[key] = v
		}
	}
	return p
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed), clamped to valid range
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage)
}

// NewPageInfo computes pagination metadata for a result set of total rows.
// PRE: total >= 0
// POST: Page is clamped into [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
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
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Bounds returns the half-open slice window [start, end) for the current page.
// PRE: the window is applied to a slice of length Total
// POST: 0 <= start <= end <= Total
func (p PageInfo) Bounds() (start, end int) {
	start = (p.Page - 1) * p.PerPage
	if start > p.Total {
		start = p.Total
	}
	end = start + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

// StartRow returns the 1-indexed first row number on the current page,
// or 0 when the result set is empty.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	start, _ := p.Bounds()
	return start + 1
}

// EndRow returns the 1-indexed last row number on the current page.
func (p PageInfo) EndRow() int {
	_, end := p.Bounds()
	return end
}

// PageNumbers returns at most 5 page numbers centered on the current page
// for rendering pagination controls.
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

// ShowPagination reports whether pagination controls are needed.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

// Page applies the window described by info to rows.
// PRE: len(rows) == info.Total
// POST: returns the subslice for the current page
func Page[T any](rows []T, info PageInfo) []T {
	start, end := info.Bounds()
	return rows[start:end]
}

func contains(opts []int, n int) bool {
	for _, o := range opts {
		if o == n {
			return true
		}
	}
	return false
}

func containsString(opts []string, s string) bool {
	for _, o := range opts {
		if o == s {
			return true
		}
	}
	return false
}
