package service

import (
	"context"

	"bookcatalog/internal/domains/cart/model"
	"bookcatalog/pkg/logger"
)

type CartService struct {
	sessions *model.Sessions
	books    BookLookup
}

func NewCartService(sessions *model.Sessions, books BookLookup) *CartService {
	return &CartService{sessions: sessions, books: books}
}

// View returns the session's cart without creating one.
func (s *CartService) View(sessionID string) model.Summary {
	if c, ok := s.sessions.Get(sessionID); ok {
		return c.Summary()
	}
	return model.NewContainer().Summary()
}

// AddItem snapshots the book's current title and price into the cart. The catalog
// lookup is the only step that can fail; the cart itself is untouched on error.
func (s *CartService) AddItem(ctx context.Context, sessionID string, bookID int64) (model.Summary, error) {
	book, err := s.books.GetBook(ctx, bookID)
	if err != nil {
		return model.Summary{}, err
	}

	cart := s.sessions.Open(sessionID)
	cart.Add(model.FromBook(*book))
	logger.Debug("cart item added", map[string]interface{}{"session_id": sessionID, "book_id": bookID})
	return cart.Summary(), nil
}

func (s *CartService) RemoveItem(sessionID string, bookID int64) model.Summary {
	c, ok := s.sessions.Get(sessionID)
	if !ok {
		return model.NewContainer().Summary()
	}
	c.Remove(bookID)
	return c.Summary()
}

// Checkout takes the final summary and ends the session. No payment is taken.
func (s *CartService) Checkout(sessionID string) model.Summary {
	summary := s.View(sessionID)
	s.sessions.End(sessionID)
	logger.Info("cart checked out", map[string]interface{}{
		"session_id": sessionID,
		"items":      summary.Count,
		"total":      summary.Total.StringFixed(2),
	})
	return summary
}

func (s *CartService) End(sessionID string) {
	s.sessions.End(sessionID)
}
