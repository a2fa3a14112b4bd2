package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"bookcatalog/internal/domains/book/model"
	"bookcatalog/pkg/cache"
	"bookcatalog/pkg/logger"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/singleflight"
)

// GenerationKey holds the catalog generation. Every successful write increments it and
// every cache key embeds it, so entries filled before a write are never read again.
const GenerationKey = "catalog:generation"

// sharedLoadTimeout bounds a load shared by concurrent misses. The load does not inherit
// the cancellation of whichever caller started it.
const sharedLoadTimeout = 30 * time.Second

// CachedReader is a read-through cache in front of another ServiceInterface.
// Cache failures are logged and the call goes to the wrapped service.
type CachedReader struct {
	next  ServiceInterface
	cache cache.Cache
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedReader(next ServiceInterface, c cache.Cache, ttl time.Duration) *CachedReader {
	return &CachedReader{next: next, cache: c, ttl: ttl}
}

func (r *CachedReader) ListCategories(ctx context.Context) ([]string, error) {
	gen, ok := r.generation(ctx)
	if !ok {
		return r.next.ListCategories(ctx)
	}
	key := fmt.Sprintf("catalog:g%d:categories", gen)

	var cached []string
	if r.lookup(ctx, key, &cached) {
		return cached, nil
	}

	v, err := r.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		categories, err := r.next.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		r.store(ctx, key, categories)
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]string)), nil
}

func (r *CachedReader) ListPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	gen, ok := r.generation(ctx)
	if !ok {
		return r.next.ListPage(ctx, req)
	}
	key := fmt.Sprintf("catalog:g%d:page:%s", gen, pageFingerprint(req))

	var cached model.Page
	if r.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	v, err := r.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		page, err := r.next.ListPage(ctx, req)
		if err != nil {
			return nil, err
		}
		r.store(ctx, key, page)
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	page := *v.(*model.Page)
	page.Records = slices.Clone(page.Records)
	return &page, nil
}

// shared runs load once per key for all concurrent callers. Each caller stops waiting
// when its own ctx is done; the load itself keeps going for the others.
func (r *CachedReader) shared(ctx context.Context, key string, load func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := r.group.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()
		return load(loadCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *CachedReader) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	return r.next.GetBook(ctx, id)
}

func (r *CachedReader) CreateBook(ctx context.Context, fields model.BookFields) (*model.Book, error) {
	book, err := r.next.CreateBook(ctx, fields)
	if err == nil {
		r.bump(ctx)
	}
	return book, err
}

func (r *CachedReader) UpdateBook(ctx context.Context, id int64, fields model.BookFields) (*model.Book, error) {
	book, err := r.next.UpdateBook(ctx, id, fields)
	if err == nil {
		r.bump(ctx)
	}
	return book, err
}

func (r *CachedReader) DeleteBook(ctx context.Context, id int64) error {
	err := r.next.DeleteBook(ctx, id)
	if err == nil {
		r.bump(ctx)
	}
	return err
}

func (r *CachedReader) ExportBooks(ctx context.Context, categories []string, sort model.SortDirection) (*excelize.File, error) {
	return r.next.ExportBooks(ctx, categories, sort)
}

func (r *CachedReader) generation(ctx context.Context) (int64, bool) {
	gen, err := r.cache.Counter(ctx, GenerationKey)
	if err != nil {
		logger.Warn("catalog cache unavailable, reading through", err)
		return 0, false
	}
	return gen, true
}

func (r *CachedReader) lookup(ctx context.Context, key string, dest interface{}) bool {
	found, err := r.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("catalog cache get failed", err)
		return false
	}
	return found
}

func (r *CachedReader) store(ctx context.Context, key string, value interface{}) {
	if err := r.cache.Set(ctx, key, value, r.ttl); err != nil {
		logger.Warn("catalog cache set failed", err)
	}
}

func (r *CachedReader) bump(ctx context.Context) {
	if _, err := r.cache.Increment(ctx, GenerationKey); err != nil {
		logger.Warn("catalog generation bump failed, cached pages may be stale until they expire", err)
	}
}

// pageFingerprint is stable under reordering or repeating categories.
func pageFingerprint(req model.PageRequest) string {
	categories := slices.Clone(req.Categories)
	slices.Sort(categories)
	categories = slices.Compact(categories)

	canonical, _ := json.Marshal(struct {
		Categories []string `json:"c"`
		Sort       string   `json:"s"`
		Index      int      `json:"i"`
		Size       int      `json:"n"`
	}{categories, string(req.Sort), req.PageIndex, req.PageSize})

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
