package model

import (
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultPageSize  = 10
	DefaultPageIndex = 1
)

// SortDirection orders records by title. SortNone keeps store-native order.
type SortDirection string

const (
	SortNone       SortDirection = ""
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// ParseSortDirection accepts the long and short spellings in any case.
// Anything else, including "none", maps to SortNone.
func ParseSortDirection(s string) SortDirection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascending", "asc":
		return SortAscending
	case "descending", "desc":
		return SortDescending
	default:
		return SortNone
	}
}

func (d SortDirection) String() string {
	if d == SortNone {
		return "none"
	}
	return string(d)
}

// PageRequest selects one page of the filtered, sorted catalog.
// An empty Categories set means no filtering.
type PageRequest struct {
	Categories []string      `json:"categories"`
	Sort       SortDirection `json:"sortDirection"`
	PageIndex  int           `json:"pageIndex"`
	PageSize   int           `json:"pageSize"`
}

// NewPageRequest returns a request with the default size, first page and ascending sort.
func NewPageRequest() PageRequest {
	return PageRequest{
		Sort:      SortAscending,
		PageIndex: DefaultPageIndex,
		PageSize:  DefaultPageSize,
	}
}

func (r PageRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.PageSize,
			validation.Required.Error("must be a positive integer"),
			validation.Min(1).Error("must be a positive integer"),
		),
		validation.Field(&r.PageIndex,
			validation.Required.Error("must be a positive integer"),
			validation.Min(1).Error("must be a positive integer"),
		),
	)
	return FromValidation(err)
}

// Offset is the number of matching records that precede the page. It saturates at
// math.MaxInt64 instead of wrapping for very large requests.
func (r PageRequest) Offset() int64 {
	if r.PageIndex <= 1 || r.PageSize <= 0 {
		return 0
	}
	skipped, size := int64(r.PageIndex-1), int64(r.PageSize)
	if skipped > math.MaxInt64/size {
		return math.MaxInt64
	}
	return skipped * size
}

// PastEnd reports whether the page starts beyond the last of total matching records.
func (r PageRequest) PastEnd(total int) bool {
	return r.PageIndex-1 >= TotalPages(total, r.PageSize)
}

// Page is one slice of the catalog plus the number of records matching the filter
// before pagination.
type Page struct {
	Records    []Book `json:"records"`
	TotalCount int    `json:"total_count"`
	PageIndex  int    `json:"page_index"`
	PageSize   int    `json:"page_size"`
}

// TotalPages is ceil(TotalCount / PageSize).
func (p Page) TotalPages() int {
	return TotalPages(p.TotalCount, p.PageSize)
}

func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
