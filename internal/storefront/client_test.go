package storefront

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	bookhandler "bookcatalog/internal/domains/book/handler"
	bookmodel "bookcatalog/internal/domains/book/model"
	"bookcatalog/internal/domains/book/repository"
	"bookcatalog/internal/domains/book/service"
	"bookcatalog/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogServer(t *testing.T, store repository.Store) *Client {
	gin.SetMode(gin.TestMode)
	h := bookhandler.NewHandler(service.NewService(store))

	r := gin.New()
	books := r.Group("/api/v1/books")
	books.GET("", h.ListBooks)
	books.GET("/categories", h.ListCategories)
	books.GET("/:id", h.GetBook)
	books.POST("", h.CreateBook)
	books.PUT("/:id", h.UpdateBook)
	books.DELETE("/:id", h.DeleteBook)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/v1/", WithHTTPClient(srv.Client()))
}

func seeded() *repository.MemoryStore {
	var seed []bookmodel.BookFields
	for i := 1; i <= 25; i++ {
		category := "History"
		if i%5 == 0 || i%5 == 1 {
			category = "Fiction"
		}
		seed = append(seed, bookmodel.BookFields{
			Title:    fmt.Sprintf("Title %02d", i),
			Category: category,
			Price:    decimal.NewFromFloat(1.5),
		})
	}
	return repository.NewMemoryStore(seed...)
}

func TestClient_ListPage(t *testing.T) {
	c := newCatalogServer(t, seeded())

	page, err := c.ListPage(context.Background(), bookmodel.PageRequest{
		Categories: []string{"Fiction"},
		Sort:       bookmodel.SortDescending,
		PageIndex:  2,
		PageSize:   5,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, page.TotalCount)
	require.Len(t, page.Records, 5)
	assert.Equal(t, "Title 11", page.Records[0].Title)
	assert.Equal(t, 2, page.TotalPages())
}

func TestClient_SortNoneRoundTrips(t *testing.T) {
	c := newCatalogServer(t, seeded())

	page, err := c.ListPage(context.Background(), bookmodel.PageRequest{Sort: bookmodel.SortNone, PageIndex: 1, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Records[0].ID)
}

func TestClient_Categories(t *testing.T) {
	c := newCatalogServer(t, seeded())
	categories, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiction", "History"}, categories)
}

func TestClient_CRUDAndErrors(t *testing.T) {
	ctx := context.Background()
	c := newCatalogServer(t, repository.NewMemoryStore())

	created, err := c.CreateBook(ctx, bookmodel.BookFields{Title: "Dune", Category: "Fiction", Price: decimal.RequireFromString("18.99")})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := c.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	updated, err := c.UpdateBook(ctx, created.ID, bookmodel.BookFields{Title: "Dune Messiah", Category: "Fiction"})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)

	require.NoError(t, c.DeleteBook(ctx, created.ID))

	_, err = c.GetBook(ctx, created.ID)
	assert.ErrorIs(t, err, bookmodel.ErrBookNotFound)
	assert.ErrorIs(t, c.DeleteBook(ctx, created.ID), bookmodel.ErrBookNotFound)
	_, err = c.UpdateBook(ctx, 999, bookmodel.BookFields{Title: "Ghost"})
	assert.ErrorIs(t, err, bookmodel.ErrBookNotFound)

	_, err = c.CreateBook(ctx, bookmodel.BookFields{Title: "Bad", PageCount: -1})
	var ve *bookmodel.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Details, "page_count")

	_, err = c.ListPage(ctx, bookmodel.PageRequest{PageIndex: 1, PageSize: 0})
	assert.True(t, bookmodel.IsValidation(err))
}

func TestClient_ServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"success":false,"error":{"code":%q,"message":"Catalog store is unavailable"}}`, response.CodeStorageUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListCategories(context.Background())
	assert.ErrorIs(t, err, bookmodel.ErrStorage)
}

func TestClient_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).ListCategories(context.Background())
	assert.ErrorIs(t, err, bookmodel.ErrStorage)
}

func TestClient_RateLimitHonorsContext(t *testing.T) {
	c := newCatalogServer(t, seeded())
	WithRateLimit(1)(c)

	_, err := c.ListCategories(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.ListCategories(ctx)
	assert.Error(t, err)
}

func TestClient_DrivesBrowser(t *testing.T) {
	c := newCatalogServer(t, seeded())
	b := NewBrowser(c, nil)
	ctx := context.Background()

	b.SetPageSize(4)
	b.ToggleCategory("History")
	page, err := b.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, page.TotalCount)
	assert.Equal(t, 4, b.TotalPages())

	b.AddToCart(page.Records[0])
	assert.Equal(t, "1.50", b.Cart().Total().StringFixed(2))
}
