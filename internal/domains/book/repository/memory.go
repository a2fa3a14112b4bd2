package repository

import (
	"context"
	"sort"
	"sync"

	"bookcatalog/internal/domains/book/model"
)

// MemoryStore keeps the catalog in process memory, ordered by id.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	order  []int64
	books  map[int64]model.Book
}

// NewMemoryStore returns a store pre-loaded with seed, ids assigned in order.
func NewMemoryStore(seed ...model.BookFields) *MemoryStore {
	s := &MemoryStore{
		nextID: 1,
		books:  make(map[int64]model.Book),
	}
	for _, f := range seed {
		s.insertLocked(f)
	}
	return s
}

func (s *MemoryStore) Scan(ctx context.Context) ([]model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewStorageError("scan", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Book, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.books[id])
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewStorageError("get", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	return &b, nil
}

func (s *MemoryStore) Insert(ctx context.Context, fields model.BookFields) (*model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewStorageError("insert", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.insertLocked(fields)
	return &b, nil
}

func (s *MemoryStore) Replace(ctx context.Context, id int64, fields model.BookFields) (*model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewStorageError("replace", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return nil, model.ErrBookNotFound
	}
	b := fields.WithID(id)
	s.books[id] = b
	return &b, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return model.NewStorageError("delete", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(s.books, id)
	i := sort.Search(len(s.order), func(i int) bool { return s.order[i] >= id })
	s.order = append(s.order[:i], s.order[i+1:]...)
	return nil
}

func (s *MemoryStore) Categories(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewStorageError("categories", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for _, id := range s.order {
		c := s.books[id].Category
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

func (s *MemoryStore) insertLocked(fields model.BookFields) model.Book {
	b := fields.WithID(s.nextID)
	s.nextID++
	s.books[b.ID] = b
	s.order = append(s.order, b.ID)
	return b
}
