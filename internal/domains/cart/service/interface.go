package service

import (
	"context"

	bookmodel "bookcatalog/internal/domains/book/model"
	"bookcatalog/internal/domains/cart/model"
)

// BookLookup resolves a book id to the current catalog record.
type BookLookup interface {
	GetBook(ctx context.Context, id int64) (*bookmodel.Book, error)
}

type ServiceInterface interface {
	View(sessionID string) model.Summary
	AddItem(ctx context.Context, sessionID string, bookID int64) (model.Summary, error)
	RemoveItem(sessionID string, bookID int64) model.Summary
	Checkout(sessionID string) model.Summary
	End(sessionID string)
}
