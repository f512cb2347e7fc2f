package pagination

import (
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is the fixed page size for contact listings.
	DefaultPageSize = 10
	// MaxPageSize caps a configured page size.
	MaxPageSize = 100
)

// Outcome tags how the requested page number was resolved.
type Outcome int

const (
	// OutcomeOK means the requested page exists.
	OutcomeOK Outcome = iota
	// OutcomeCoercedToFirstPage means the page number was missing or not an integer and page 1 was served.
	OutcomeCoercedToFirstPage
	// OutcomeBeyondLastPage means the page number was below 1 or past the last page. No items are returned.
	OutcomeBeyondLastPage
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeCoercedToFirstPage:
		return "coerced_to_first_page"
	case OutcomeBeyondLastPage:
		return "beyond_last_page"
	}
	return "unknown"
}

// Meta is the pagination block rendered next to a page of items.
type Meta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page is a slice of items plus how it was resolved.
type Page[T any] struct {
	Items   []T
	Meta    Meta
	Outcome Outcome
}

// Empty reports whether the page carries no data because it is past the end.
func (p Page[T]) Empty() bool {
	return p.Outcome == OutcomeBeyondLastPage
}

// NormalizePageSize enforces the default and maximum page sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages returns the page count for total items. An empty collection still has one page.
func TotalPages(total, size int) int {
	size = NormalizePageSize(size)
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ParsePage converts the raw query value. ok is false when the value is missing or not an integer.
func ParsePage(raw string) (page int, ok bool) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1, false
	}
	return value, true
}

// Paginate slices items into the page named by rawPage.
func Paginate[T any](items []T, rawPage string, size int) Page[T] {
	size = NormalizePageSize(size)
	total := len(items)
	pages := TotalPages(total, size)

	number, ok := ParsePage(rawPage)
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeCoercedToFirstPage
	}

	meta := Meta{Page: number, PageSize: size, Total: total, TotalPages: pages}
	if number < 1 || number > pages {
		return Page[T]{Items: []T{}, Meta: meta, Outcome: OutcomeBeyondLastPage}
	}

	start := (number - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])
	return Page[T]{Items: pageItems, Meta: meta, Outcome: outcome}
}
