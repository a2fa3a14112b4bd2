package service

import (
	"context"

	"bookcatalog/internal/domains/book/model"

	"github.com/xuri/excelize/v2"
)

// ServiceInterface is the catalog's business surface used by handlers and the cart.
type ServiceInterface interface {
	ListCategories(ctx context.Context) ([]string, error)
	ListPage(ctx context.Context, req model.PageRequest) (*model.Page, error)
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	CreateBook(ctx context.Context, fields model.BookFields) (*model.Book, error)
	UpdateBook(ctx context.Context, id int64, fields model.BookFields) (*model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	ExportBooks(ctx context.Context, categories []string, sort model.SortDirection) (*excelize.File, error)
}
