// Package model holds the per-session shopping cart.
package model

import (
	"slices"
	"sync"

	bookmodel "bookcatalog/internal/domains/book/model"

	"github.com/shopspring/decimal"
)

// LineItem is a snapshot of a book taken when it was added. Later catalog edits or
// deletes do not touch it.
type LineItem struct {
	BookID int64           `json:"book_id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
}

func FromBook(b bookmodel.Book) LineItem {
	return LineItem{BookID: b.ID, Title: b.Title, Price: b.Price}
}

// Summary is the cart as shown to a shopper.
type Summary struct {
	Items []LineItem      `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Container holds at most one line item per book, in insertion order. All methods are
// safe for concurrent use; mutations are serialized and never fail.
type Container struct {
	mu    sync.Mutex
	items []LineItem
}

func NewContainer() *Container {
	return &Container{}
}

// Add stores item. Adding a book that is already present overwrites its snapshot in
// place and keeps its position; there is no quantity.
func (c *Container) Add(item LineItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(item.BookID); i >= 0 {
		c.items[i] = item
		return
	}
	c.items = append(c.items, item)
}

// Remove drops the line item for bookID. Absent ids are ignored.
func (c *Container) Remove(bookID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(bookID); i >= 0 {
		c.items = slices.Delete(c.items, i, i+1)
	}
}

// Total is the sum of all price snapshots, zero when empty.
func (c *Container) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

// List returns a copy of the line items in insertion order.
func (c *Container) List() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Container) Contains(bookID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexLocked(bookID) >= 0
}

// Clear empties the cart. Sessions calls it when a session ends.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Summary reads items and total under one lock so they always agree.
func (c *Container) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := slices.Clone(c.items)
	if items == nil {
		items = []LineItem{}
	}
	return Summary{Items: items, Count: len(items), Total: c.totalLocked()}
}

func (c *Container) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Price)
	}
	return total
}

func (c *Container) indexLocked(bookID int64) int {
	return slices.IndexFunc(c.items, func(item LineItem) bool { return item.BookID == bookID })
}
