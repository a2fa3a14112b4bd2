package storefront

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	bookmodel "bookcatalog/internal/domains/book/model"
	cartmodel "bookcatalog/internal/domains/cart/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCatalog answers each ListPage with a page tagged by the request, after the
// test releases it.
type scriptedCatalog struct {
	mu       sync.Mutex
	requests []bookmodel.PageRequest
	release  map[int]chan struct{}
	err      error
}

func newScriptedCatalog() *scriptedCatalog {
	return &scriptedCatalog{release: map[int]chan struct{}{}}
}

func (s *scriptedCatalog) hold(index int) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.release[index] = ch
	return ch
}

func (s *scriptedCatalog) ListCategories(context.Context) ([]string, error) {
	return []string{"Fiction", "History"}, nil
}

func (s *scriptedCatalog) ListPage(_ context.Context, req bookmodel.PageRequest) (*bookmodel.Page, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	ch := s.release[req.PageIndex]
	err := s.err
	s.mu.Unlock()

	if ch != nil {
		<-ch
	}
	if err != nil {
		return nil, err
	}
	return &bookmodel.Page{
		Records:    []bookmodel.Book{{ID: int64(req.PageIndex), Title: "page"}},
		TotalCount: 23,
		PageIndex:  req.PageIndex,
		PageSize:   req.PageSize,
	}, nil
}

func TestBrowser_Defaults(t *testing.T) {
	b := NewBrowser(newScriptedCatalog(), nil)
	req := b.Request()
	assert.Equal(t, 10, req.PageSize)
	assert.Equal(t, 1, req.PageIndex)
	assert.Equal(t, bookmodel.SortAscending, req.Sort)
	assert.Nil(t, b.Page())
	assert.Zero(t, b.TotalPages())
	assert.NotNil(t, b.Cart())
}

func TestBrowser_RefreshAppliesPage(t *testing.T) {
	b := NewBrowser(newScriptedCatalog(), nil)

	page, err := b.Refresh(context.Background())
	require.NoError(t, err)
	assert.Same(t, page, b.Page())
	assert.Equal(t, 3, b.TotalPages())
}

func TestBrowser_ChangesResetPageIndex(t *testing.T) {
	b := NewBrowser(newScriptedCatalog(), nil)

	b.SetPageIndex(3)
	b.SetPageSize(5)
	assert.Equal(t, 1, b.Request().PageIndex)

	b.SetPageIndex(3)
	b.SetSort(bookmodel.SortDescending)
	assert.Equal(t, 1, b.Request().PageIndex)

	b.SetPageIndex(3)
	b.ToggleCategory("Fiction")
	assert.Equal(t, 1, b.Request().PageIndex)
	assert.Equal(t, []string{"Fiction"}, b.Request().Categories)

	b.ToggleCategory("History")
	b.ToggleCategory("Fiction")
	assert.Equal(t, []string{"History"}, b.Request().Categories)

	b.SetPageIndex(2)
	b.SetCategories(nil)
	assert.Equal(t, 1, b.Request().PageIndex)
	assert.Empty(t, b.Request().Categories)
}

func TestBrowser_RequestIsACopy(t *testing.T) {
	b := NewBrowser(newScriptedCatalog(), nil)
	b.SetCategories([]string{"Fiction"})
	req := b.Request()
	req.Categories[0] = "mutated"
	assert.Equal(t, []string{"Fiction"}, b.Request().Categories)
}

func TestBrowser_DiscardsStaleResponse(t *testing.T) {
	catalog := newScriptedCatalog()
	b := NewBrowser(catalog, nil)
	ctx := context.Background()

	slow := catalog.hold(1)
	type result struct {
		page *bookmodel.Page
		err  error
	}
	first := make(chan result, 1)
	go func() {
		p, err := b.Refresh(ctx)
		first <- result{p, err}
	}()

	// Wait until the first request is in flight before changing the view.
	require.Eventually(t, func() bool {
		catalog.mu.Lock()
		defer catalog.mu.Unlock()
		return len(catalog.requests) == 1
	}, time.Second, time.Millisecond)

	b.SetPageIndex(2)
	newer, err := b.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, newer.PageIndex)

	close(slow)
	old := <-first
	assert.ErrorIs(t, old.err, ErrStaleResult)
	assert.Nil(t, old.page)

	assert.Equal(t, 2, b.Page().PageIndex, "the older response must not overwrite the newer one")
}

// countingCatalog reports the call number as the total, holding the calls the test asks for.
type countingCatalog struct {
	mu    sync.Mutex
	calls int
	held  map[int]chan struct{}
}

func (c *countingCatalog) ListCategories(context.Context) ([]string, error) { return nil, nil }

func (c *countingCatalog) ListPage(_ context.Context, req bookmodel.PageRequest) (*bookmodel.Page, error) {
	c.mu.Lock()
	c.calls++
	n := c.calls
	ch := c.held[n]
	c.mu.Unlock()

	if ch != nil {
		<-ch
	}
	return &bookmodel.Page{Records: []bookmodel.Book{}, TotalCount: n, PageIndex: req.PageIndex, PageSize: req.PageSize}, nil
}

func TestBrowser_LatestRefreshWinsForSameView(t *testing.T) {
	slow := make(chan struct{})
	catalog := &countingCatalog{held: map[int]chan struct{}{1: slow}}
	b := NewBrowser(catalog, nil)
	ctx := context.Background()

	first := make(chan error, 1)
	go func() {
		_, err := b.Refresh(ctx)
		first <- err
	}()
	require.Eventually(t, func() bool {
		catalog.mu.Lock()
		defer catalog.mu.Unlock()
		return catalog.calls == 1
	}, time.Second, time.Millisecond)

	newer, err := b.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, newer.TotalCount)

	close(slow)
	assert.ErrorIs(t, <-first, ErrStaleResult)
	assert.Equal(t, 2, b.Page().TotalCount)
}

func TestBrowser_FailedRefreshKeepsLastPage(t *testing.T) {
	catalog := newScriptedCatalog()
	b := NewBrowser(catalog, nil)
	ctx := context.Background()

	applied, err := b.Refresh(ctx)
	require.NoError(t, err)

	catalog.mu.Lock()
	catalog.err = bookmodel.NewStorageError("remote", errors.New("down"))
	catalog.mu.Unlock()
	_, err = b.Refresh(ctx)
	assert.ErrorIs(t, err, bookmodel.ErrStorage)
	assert.Same(t, applied, b.Page())
}

func TestBrowser_LoadCategories(t *testing.T) {
	b := NewBrowser(newScriptedCatalog(), nil)
	categories, err := b.LoadCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiction", "History"}, categories)
	assert.Equal(t, categories, b.Categories())
}

func TestBrowser_CartIsInjected(t *testing.T) {
	cart := cartmodel.NewContainer()
	b := NewBrowser(newScriptedCatalog(), cart)

	book := bookmodel.Book{ID: 7, Title: "X", Price: decimal.RequireFromString("12.50")}
	b.AddToCart(book)
	b.AddToCart(book)
	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, "12.50", cart.Total().StringFixed(2))

	b.RemoveFromCart(99)
	assert.Equal(t, 1, cart.Len())
	b.RemoveFromCart(7)
	assert.Zero(t, cart.Len())
}
