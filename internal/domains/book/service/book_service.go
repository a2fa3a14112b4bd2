package service

import (
	"context"
	"slices"

	"bookcatalog/internal/domains/book/model"
	"bookcatalog/internal/domains/book/query"
	"bookcatalog/internal/domains/book/repository"
	"bookcatalog/pkg/logger"

	"github.com/xuri/excelize/v2"
)

type BookService struct {
	store repository.Store
}

func NewService(store repository.Store) *BookService {
	return &BookService{store: store}
}

// ListCategories returns each distinct category once, sorted for display.
func (s *BookService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(categories)
	slices.Sort(out)
	return slices.Compact(out), nil
}

// ListPage answers a page request. Stores that implement repository.Pager evaluate it
// themselves; otherwise the whole catalog is scanned and paged in memory.
func (s *BookService) ListPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if pager, ok := s.store.(repository.Pager); ok {
		return pager.QueryPage(ctx, req)
	}

	records, err := s.store.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return query.Page(records, req)
}

func (s *BookService) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	return s.store.Get(ctx, id)
}

func (s *BookService) CreateBook(ctx context.Context, fields model.BookFields) (*model.Book, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	book, err := s.store.Insert(ctx, fields)
	if err != nil {
		return nil, err
	}
	logger.Info("book created", map[string]interface{}{"book_id": book.ID, "category": book.Category})
	return book, nil
}

// UpdateBook replaces every mutable field of id. Validation runs before the store is touched.
func (s *BookService) UpdateBook(ctx context.Context, id int64, fields model.BookFields) (*model.Book, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	book, err := s.store.Replace(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	logger.Info("book updated", map[string]interface{}{"book_id": id})
	return book, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("book deleted", map[string]interface{}{"book_id": id})
	return nil
}

// ExportBooks writes every record matching categories, in sort order, to a workbook.
func (s *BookService) ExportBooks(ctx context.Context, categories []string, sort model.SortDirection) (*excelize.File, error) {
	records, err := s.store.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return buildBooksExcelFile(query.FilterAndSort(records, categories, sort))
}
