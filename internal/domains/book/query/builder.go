// Package query turns a page request into a deterministic page of the catalog.
//
// Filtering and sorting always run on the full record set before pagination, so a
// page index names the same position no matter which page was read before it.
package query

import (
	"slices"
	"strings"

	"bookcatalog/internal/domains/book/model"
)

// BuildPage filters records by category, orders them by title and cuts out one page.
// total is the number of records that survived the filter. records is not modified.
func BuildPage(records []model.Book, categories []string, sort model.SortDirection, pageIndex, pageSize int) ([]model.Book, int, error) {
	req := model.PageRequest{
		Categories: categories,
		Sort:       sort,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
	}
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}

	matched := FilterAndSort(records, categories, sort)
	return Paginate(matched, pageIndex, pageSize), len(matched), nil
}

// Page is BuildPage for a PageRequest.
func Page(records []model.Book, req model.PageRequest) (*model.Page, error) {
	page, total, err := BuildPage(records, req.Categories, req.Sort, req.PageIndex, req.PageSize)
	if err != nil {
		return nil, err
	}
	return &model.Page{
		Records:    page,
		TotalCount: total,
		PageIndex:  req.PageIndex,
		PageSize:   req.PageSize,
	}, nil
}

// FilterAndSort returns a new slice holding the matching records in page order.
func FilterAndSort(records []model.Book, categories []string, sort model.SortDirection) []model.Book {
	matched := Filter(records, categories)
	Sort(matched, sort)
	return matched
}

// Filter keeps records whose category is in categories, compared exactly.
// An empty set keeps everything. The result never aliases records.
func Filter(records []model.Book, categories []string) []model.Book {
	if len(categories) == 0 {
		return slices.Clone(records)
	}

	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[c] = struct{}{}
	}

	out := make([]model.Book, 0, len(records))
	for _, b := range records {
		if _, ok := allowed[b.Category]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Sort orders records in place by title, byte-wise. Ascending is stable; descending is
// the exact reverse of ascending, ties included. SortNone leaves records untouched.
func Sort(records []model.Book, sort model.SortDirection) {
	switch sort {
	case model.SortAscending:
		slices.SortStableFunc(records, byTitle)
	case model.SortDescending:
		slices.SortStableFunc(records, byTitle)
		slices.Reverse(records)
	}
}

func byTitle(a, b model.Book) int {
	return strings.Compare(a.Title, b.Title)
}

// Paginate returns the pageIndex-th window of pageSize records (1-based).
// A page past the end is empty, never an error.
func Paginate(records []model.Book, pageIndex, pageSize int) []model.Book {
	if pageSize <= 0 || pageIndex <= 0 {
		return []model.Book{}
	}
	req := model.PageRequest{PageIndex: pageIndex, PageSize: pageSize}
	if req.PastEnd(len(records)) {
		return []model.Book{}
	}

	start := (pageIndex - 1) * pageSize
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return slices.Clone(records[start:end])
}
