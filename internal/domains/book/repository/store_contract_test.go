package repository

import (
	"context"
	"fmt"
	"math"
	"testing"

	"bookcatalog/internal/domains/book/model"
	"bookcatalog/internal/domains/book/query"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsFor(i int, category string) model.BookFields {
	return model.BookFields{
		Title:     fmt.Sprintf("Book %02d", (i*11)%17),
		Author:    "Author",
		Category:  category,
		PageCount: 100 + i,
		Price:     decimal.NewFromInt(int64(i)).Add(decimal.RequireFromString("0.50")),
	}
}

// runStoreContract checks behavior every Store implementation shares.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("insert assigns increasing ids", func(t *testing.T) {
		s := newStore(t)
		a, err := s.Insert(ctx, fieldsFor(1, "Fiction"))
		require.NoError(t, err)
		b, err := s.Insert(ctx, fieldsFor(2, "History"))
		require.NoError(t, err)

		assert.Greater(t, b.ID, a.ID)
		assert.Equal(t, fieldsFor(1, "Fiction").Title, a.Title)
	})

	t.Run("scan returns id order", func(t *testing.T) {
		s := newStore(t)
		var want []int64
		for i := 0; i < 5; i++ {
			b, err := s.Insert(ctx, fieldsFor(i, "Fiction"))
			require.NoError(t, err)
			want = append(want, b.ID)
		}
		all, err := s.Scan(ctx)
		require.NoError(t, err)
		got := make([]int64, len(all))
		for i, b := range all {
			got[i] = b.ID
		}
		assert.Equal(t, want, got)
	})

	t.Run("replace overwrites every field", func(t *testing.T) {
		s := newStore(t)
		b, err := s.Insert(ctx, fieldsFor(1, "Fiction"))
		require.NoError(t, err)

		next := fieldsFor(9, "History")
		next.Publisher = "New Publisher"
		updated, err := s.Replace(ctx, b.ID, next)
		require.NoError(t, err)
		assert.Equal(t, b.ID, updated.ID)
		assert.Equal(t, "History", updated.Category)
		assert.Equal(t, "New Publisher", updated.Publisher)

		got, err := s.Get(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, next.Title, got.Title)
		assert.True(t, next.Price.Equal(got.Price))
	})

	t.Run("missing id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, 999)
		assert.ErrorIs(t, err, model.ErrBookNotFound)
		_, err = s.Replace(ctx, 999, fieldsFor(1, "Fiction"))
		assert.ErrorIs(t, err, model.ErrBookNotFound)
		assert.ErrorIs(t, s.Delete(ctx, 999), model.ErrBookNotFound)

		all, err := s.Scan(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("delete removes record", func(t *testing.T) {
		s := newStore(t)
		a, _ := s.Insert(ctx, fieldsFor(1, "Fiction"))
		b, _ := s.Insert(ctx, fieldsFor(2, "Fiction"))

		require.NoError(t, s.Delete(ctx, a.ID))
		_, err := s.Get(ctx, a.ID)
		assert.ErrorIs(t, err, model.ErrBookNotFound)

		all, err := s.Scan(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, b.ID, all[0].ID)
	})

	t.Run("categories are distinct", func(t *testing.T) {
		s := newStore(t)
		for i, c := range []string{"Fiction", "History", "Fiction", "Science", "History"} {
			_, err := s.Insert(ctx, fieldsFor(i, c))
			require.NoError(t, err)
		}
		categories, err := s.Categories(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Fiction", "History", "Science"}, categories)
	})

	t.Run("pager matches in-memory paging", func(t *testing.T) {
		s := newStore(t)
		pager, ok := s.(Pager)
		if !ok {
			t.Skip("store does not page by itself")
		}
		for i := 0; i < 23; i++ {
			category := "History"
			if i%3 == 0 {
				category = "Fiction"
			}
			_, err := s.Insert(ctx, fieldsFor(i, category))
			require.NoError(t, err)
		}
		all, err := s.Scan(ctx)
		require.NoError(t, err)

		for _, cats := range [][]string{nil, {"Fiction"}, {"History", "Fiction"}, {"Nothing"}} {
			for _, sort := range []model.SortDirection{model.SortNone, model.SortAscending, model.SortDescending} {
				for _, size := range []int{1, 4, 10, 50} {
					for index := 1; index <= 4; index++ {
						req := model.PageRequest{Categories: cats, Sort: sort, PageIndex: index, PageSize: size}
						want, err := query.Page(all, req)
						require.NoError(t, err)
						got, err := pager.QueryPage(ctx, req)
						require.NoError(t, err)

						assert.Equal(t, want.TotalCount, got.TotalCount, "%+v", req)
						require.Len(t, got.Records, len(want.Records), "%+v", req)
						for i := range want.Records {
							assert.Equal(t, want.Records[i].ID, got.Records[i].ID, "%+v", req)
						}
					}
				}
			}
		}
	})

	t.Run("pager returns an empty page far past the end", func(t *testing.T) {
		s := newStore(t)
		pager, ok := s.(Pager)
		if !ok {
			t.Skip("store does not page by itself")
		}
		for i := 0; i < 3; i++ {
			_, err := s.Insert(ctx, fieldsFor(i, "Fiction"))
			require.NoError(t, err)
		}
		all, err := s.Scan(ctx)
		require.NoError(t, err)

		for _, index := range []int{4, 1 << 40, math.MaxInt} {
			req := model.PageRequest{Sort: model.SortAscending, PageIndex: index, PageSize: 10}
			want, err := query.Page(all, req)
			require.NoError(t, err)
			got, err := pager.QueryPage(ctx, req)
			require.NoError(t, err, "pageIndex %d", index)
			assert.Equal(t, want.TotalCount, got.TotalCount)
			assert.NotNil(t, got.Records)
			assert.Empty(t, got.Records)
		}
	})
}
