package repository

import (
	"context"

	"bookcatalog/internal/domains/book/model"

	"github.com/shopspring/decimal"
)

// SampleBooks is a small starter catalog for local runs.
func SampleBooks() []model.BookFields {
	price := decimal.RequireFromString
	return []model.BookFields{
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Publisher: "Ace", ISBN: "9780441478125", Classification: "813.54", Category: "Fiction", PageCount: 304, Price: price("15.99")},
		{Title: "Dune", Author: "Frank Herbert", Publisher: "Chilton", ISBN: "9780441172719", Classification: "813.54", Category: "Fiction", PageCount: 412, Price: price("18.99")},
		{Title: "Beloved", Author: "Toni Morrison", Publisher: "Knopf", ISBN: "9781400033416", Classification: "813.54", Category: "Fiction", PageCount: 324, Price: price("16.00")},
		{Title: "The Guns of August", Author: "Barbara W. Tuchman", Publisher: "Macmillan", ISBN: "9780345476098", Classification: "940.4144", Category: "History", PageCount: 640, Price: price("20.00")},
		{Title: "SPQR", Author: "Mary Beard", Publisher: "Liveright", ISBN: "9781631492228", Classification: "937.06", Category: "History", PageCount: 608, Price: price("19.95")},
		{Title: "The Structure of Scientific Revolutions", Author: "Thomas S. Kuhn", Publisher: "University of Chicago Press", ISBN: "9780226458120", Classification: "501", Category: "Science", PageCount: 264, Price: price("14.50")},
		{Title: "A Brief History of Time", Author: "Stephen Hawking", Publisher: "Bantam", ISBN: "9780553380163", Classification: "523.1", Category: "Science", PageCount: 212, Price: price("12.50")},
	}
}

// Seed inserts fields into store when it holds no records. It reports how many were added.
func Seed(ctx context.Context, store Store, fields []model.BookFields) (int, error) {
	existing, err := store.Scan(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, f := range fields {
		if _, err := store.Insert(ctx, f); err != nil {
			return i, err
		}
	}
	return len(fields), nil
}
