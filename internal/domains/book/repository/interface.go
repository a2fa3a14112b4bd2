package repository

import (
	"context"

	"bookcatalog/internal/domains/book/model"
)

// Store is the persistent catalog collaborator. Every call is atomic on its own;
// concurrent writers are serialized by the store and the last one wins.
type Store interface {
	// Scan returns every record in store-native order (ascending id).
	Scan(ctx context.Context) ([]model.Book, error)
	Get(ctx context.Context, id int64) (*model.Book, error)
	// Insert assigns a fresh id and returns the stored record.
	Insert(ctx context.Context, fields model.BookFields) (*model.Book, error)
	// Replace overwrites every mutable field of id in one step.
	Replace(ctx context.Context, id int64, fields model.BookFields) (*model.Book, error)
	Delete(ctx context.Context, id int64) error
	// Categories returns the distinct category values.
	Categories(ctx context.Context) ([]string, error)
}

// Pager is implemented by stores that can evaluate a page request themselves.
// The result must equal query.Page over Scan for the same request.
type Pager interface {
	QueryPage(ctx context.Context, req model.PageRequest) (*model.Page, error)
}
