package storefront

import (
	"context"
	"errors"
	"slices"
	"sync"

	bookmodel "bookcatalog/internal/domains/book/model"
	cartmodel "bookcatalog/internal/domains/cart/model"
)

// ErrStaleResult is returned by Refresh when the view changed or a later Refresh was
// issued while the request was in flight. The result was discarded.
var ErrStaleResult = errors.New("storefront: result superseded by a newer request")

// Catalog is the read side of the catalog API the browser needs.
type Catalog interface {
	ListCategories(ctx context.Context) ([]string, error)
	ListPage(ctx context.Context, req bookmodel.PageRequest) (*bookmodel.Page, error)
}

// Browser is the view state of one shopper: the current filter, sort and page, the page
// last applied, and the shopper's cart.
//
// Every change to the view bumps a generation counter and every Refresh takes a new
// sequence number. A result is applied only when both are still current, so the last
// request issued wins no matter in which order responses arrive.
type Browser struct {
	catalog Catalog
	cart    *cartmodel.Container

	mu         sync.Mutex
	req        bookmodel.PageRequest
	generation uint64
	seq        uint64
	page       *bookmodel.Page
	categories []string
}

func NewBrowser(catalog Catalog, cart *cartmodel.Container) *Browser {
	if cart == nil {
		cart = cartmodel.NewContainer()
	}
	return &Browser{
		catalog: catalog,
		cart:    cart,
		req:     bookmodel.NewPageRequest(),
	}
}

// Request returns a copy of the current page request.
func (b *Browser) Request() bookmodel.PageRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneRequest(b.req)
}

// SetCategories replaces the filter and goes back to the first page.
func (b *Browser) SetCategories(categories []string) {
	b.update(func(r *bookmodel.PageRequest) {
		r.Categories = slices.Clone(categories)
		r.PageIndex = bookmodel.DefaultPageIndex
	})
}

// ToggleCategory adds category to the filter, or removes it if already selected.
func (b *Browser) ToggleCategory(category string) {
	b.update(func(r *bookmodel.PageRequest) {
		if i := slices.Index(r.Categories, category); i >= 0 {
			r.Categories = slices.Delete(slices.Clone(r.Categories), i, i+1)
		} else {
			r.Categories = append(slices.Clone(r.Categories), category)
		}
		r.PageIndex = bookmodel.DefaultPageIndex
	})
}

func (b *Browser) SetSort(sort bookmodel.SortDirection) {
	b.update(func(r *bookmodel.PageRequest) {
		r.Sort = sort
		r.PageIndex = bookmodel.DefaultPageIndex
	})
}

func (b *Browser) SetPageSize(size int) {
	b.update(func(r *bookmodel.PageRequest) {
		r.PageSize = size
		r.PageIndex = bookmodel.DefaultPageIndex
	})
}

func (b *Browser) SetPageIndex(index int) {
	b.update(func(r *bookmodel.PageRequest) {
		r.PageIndex = index
	})
}

func (b *Browser) update(fn func(*bookmodel.PageRequest)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.req)
	b.generation++
}

// Refresh fetches the page for the current view. A failed request leaves the applied
// page as it was.
func (b *Browser) Refresh(ctx context.Context) (*bookmodel.Page, error) {
	b.mu.Lock()
	b.seq++
	gen, seq := b.generation, b.seq
	req := cloneRequest(b.req)
	b.mu.Unlock()

	page, err := b.catalog.ListPage(ctx, req)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation || seq != b.seq {
		return nil, ErrStaleResult
	}
	if err != nil {
		return nil, err
	}
	b.page = page
	return page, nil
}

// LoadCategories fetches the category list for the filter panel.
func (b *Browser) LoadCategories(ctx context.Context) ([]string, error) {
	categories, err := b.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.categories = slices.Clone(categories)
	b.mu.Unlock()
	return categories, nil
}

func (b *Browser) Categories() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.categories)
}

// Page is the last applied page, nil before the first successful Refresh.
func (b *Browser) Page() *bookmodel.Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

// TotalPages is derived from the applied page's total and size.
func (b *Browser) TotalPages() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page == nil {
		return 0
	}
	return b.page.TotalPages()
}

func (b *Browser) Cart() *cartmodel.Container {
	return b.cart
}

func (b *Browser) AddToCart(book bookmodel.Book) {
	b.cart.Add(cartmodel.FromBook(book))
}

func (b *Browser) RemoveFromCart(bookID int64) {
	b.cart.Remove(bookID)
}

func cloneRequest(r bookmodel.PageRequest) bookmodel.PageRequest {
	r.Categories = slices.Clone(r.Categories)
	return r
}
