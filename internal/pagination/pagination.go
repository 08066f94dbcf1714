// Package pagination holds the pure page-window math shared by the query
// service and the HTTP surface. Nothing in here does I/O; the same inputs
// always produce the same outputs.
package pagination

import "strconv"

// Limits are clamped into this range regardless of what callers ask for.
const (
	MinLimit = 1
	MaxLimit = 100
)

// Ellipsis marks a collapsed gap in a page window.
const Ellipsis = -1

// Info describes one resolved page window over a result set.
type Info struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
	StartIndex  int  `json:"startIndex"`
	EndIndex    int  `json:"endIndex"`
}

// Links carries the navigation targets derived from an Info.
type Links struct {
	First    int `json:"first"`
	Previous int `json:"previous"` // 0 when there is no previous page
	Next     int `json:"next"`     // 0 when there is no next page
	Last     int `json:"last"`
}

// Calculate resolves a requested page against a total count. The limit is
// clamped to [1,100] and the page to [1,totalPages] (or 1 when there are no
// pages at all). Calling it twice with the same inputs yields identical
// output.
func Calculate(total, page, limit int) Info {
	safePage := max(1, page)
	safeLimit := max(MinLimit, min(MaxLimit, limit))
	totalPages := (total + safeLimit - 1) / safeLimit
	actualPage := min(safePage, max(1, totalPages))

	startIndex := (actualPage - 1) * safeLimit
	endIndex := min(startIndex+safeLimit, total)

	return Info{
		Page:        actualPage,
		Limit:       safeLimit,
		Total:       total,
		TotalPages:  max(totalPages, 1),
		HasNext:     actualPage < totalPages,
		HasPrevious: actualPage > 1,
		StartIndex:  startIndex,
		EndIndex:    endIndex,
	}
}

// NavLinks derives first/previous/next/last page numbers from an Info.
func NavLinks(info Info) Links {
	links := Links{First: 1, Last: info.TotalPages}
	if info.HasPrevious {
		links.Previous = info.Page - 1
	}
	if info.HasNext {
		links.Next = info.Page + 1
	}
	return links
}

// Skip returns the row offset for a store query.
func Skip(page, limit int) int {
	return (max(1, page) - 1) * max(1, limit)
}

// PageWindow produces the page numbers a pager should render: always page 1
// and the last page, one contiguous window around the current page, and
// Ellipsis markers for the collapsed ranges. When everything fits inside
// maxVisible the window is simply 1..totalPages.
func PageWindow(currentPage, totalPages, maxVisible int) []int {
	if totalPages <= maxVisible {
		pages := make([]int, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	halfVisible := maxVisible / 2
	var startPage, endPage int
	switch {
	case currentPage <= halfVisible+1:
		startPage, endPage = 2, maxVisible-1
	case currentPage >= totalPages-halfVisible:
		startPage, endPage = totalPages-maxVisible+2, totalPages-1
	default:
		startPage, endPage = currentPage-halfVisible+1, currentPage+halfVisible-1
	}

	pages := make([]int, 0, maxVisible+4)
	pages = append(pages, 1)
	if startPage > 2 {
		pages = append(pages, Ellipsis)
	}
	for i := startPage; i <= endPage; i++ {
		pages = append(pages, i)
	}
	if endPage < totalPages-1 {
		pages = append(pages, Ellipsis)
	}
	pages = append(pages, totalPages)
	return pages
}

// ParseParams reads page/limit query-string values, falling back to sane
// defaults on anything unparseable.
func ParseParams(pageStr, limitStr string) (page, limit int) {
	page = 1
	limit = 10
	if n, err := strconv.Atoi(pageStr); err == nil && n >= 1 {
		page = n
	}
	if n, err := strconv.Atoi(limitStr); err == nil && n >= 1 {
		limit = min(n, MaxLimit)
	}
	return page, limit
}
