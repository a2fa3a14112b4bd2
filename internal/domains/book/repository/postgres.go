package repository

import (
	"context"
	"errors"
	"fmt"

	"bookcatalog/internal/domains/book/model"
	"bookcatalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the books table when it does not exist yet.
const Schema = `
CREATE TABLE IF NOT EXISTS books (
	id             BIGSERIAL PRIMARY KEY,
	title          TEXT          NOT NULL,
	author         TEXT          NOT NULL DEFAULT '',
	publisher      TEXT          NOT NULL DEFAULT '',
	isbn           TEXT          NOT NULL DEFAULT '',
	classification TEXT          NOT NULL DEFAULT '',
	category       TEXT          NOT NULL DEFAULT '',
	page_count     INTEGER       NOT NULL DEFAULT 0 CHECK (page_count >= 0),
	price          NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (price >= 0)
);
CREATE INDEX IF NOT EXISTS idx_books_category ON books (category);
`

const bookColumns = `id, title, author, publisher, isbn, classification, category, page_count, price`

// querier is the part of pgxpool.Pool and pgx.Tx the store reads through.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps the catalog in a PostgreSQL table. Titles sort with the "C"
// collation so ordering is byte-wise, and id breaks ties.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema applies Schema.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return model.NewStorageError("ensure schema", err)
	}
	return nil
}

func (s *PostgresStore) Scan(ctx context.Context) ([]model.Book, error) {
	books, err := queryBooks(ctx, s.pool, `SELECT `+bookColumns+` FROM books ORDER BY id`)
	if err != nil {
		return nil, model.NewStorageError("scan", err)
	}
	return books, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*model.Book, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	return scanOne(row, "get")
}

func (s *PostgresStore) Insert(ctx context.Context, f model.BookFields) (*model.Book, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO books (title, author, publisher, isbn, classification, category, page_count, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+bookColumns,
		f.Title, f.Author, f.Publisher, f.ISBN, f.Classification, f.Category, f.PageCount, f.Price,
	)
	return scanOne(row, "insert")
}

func (s *PostgresStore) Replace(ctx context.Context, id int64, f model.BookFields) (*model.Book, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE books
		SET title = $2, author = $3, publisher = $4, isbn = $5,
		    classification = $6, category = $7, page_count = $8, price = $9
		WHERE id = $1
		RETURNING `+bookColumns,
		id, f.Title, f.Author, f.Publisher, f.ISBN, f.Classification, f.Category, f.PageCount, f.Price,
	)
	return scanOne(row, "replace")
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return model.NewStorageError("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (s *PostgresStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT category FROM books`)
	if err != nil {
		return nil, model.NewStorageError("categories", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, model.NewStorageError("categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// QueryPage counts and fetches one page inside a single read-only snapshot so the
// total always describes the same data as the records.
func (s *PostgresStore) QueryPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	where, args := categoryFilter(req.Categories)
	countSQL := `SELECT COUNT(*) FROM books` + where
	pageSQL := fmt.Sprintf(`SELECT %s FROM books%s %s LIMIT $%d OFFSET $%d`,
		bookColumns, where, orderBy(req.Sort), len(args)+1, len(args)+2)

	page, err := database.WithTransactionResult(ctx, s.pool, database.ReadOnlySnapshot,
		func(tx pgx.Tx) (*model.Page, error) {
			page := &model.Page{
				Records:   []model.Book{},
				PageIndex: req.PageIndex,
				PageSize:  req.PageSize,
			}
			if err := tx.QueryRow(ctx, countSQL, args...).Scan(&page.TotalCount); err != nil {
				return nil, err
			}
			if req.PastEnd(page.TotalCount) {
				return page, nil
			}
			records, err := queryBooks(ctx, tx, pageSQL, append(args, req.PageSize, req.Offset())...)
			if err != nil {
				return nil, err
			}
			page.Records = records
			return page, nil
		})
	if err != nil {
		return nil, model.NewStorageError("query page", err)
	}
	return page, nil
}

func categoryFilter(categories []string) (string, []any) {
	if len(categories) == 0 {
		return "", nil
	}
	return ` WHERE category = ANY($1)`, []any{categories}
}

func orderBy(sort model.SortDirection) string {
	switch sort {
	case model.SortAscending:
		return `ORDER BY title COLLATE "C" ASC, id ASC`
	case model.SortDescending:
		return `ORDER BY title COLLATE "C" DESC, id DESC`
	default:
		return `ORDER BY id`
	}
}

func queryBooks(ctx context.Context, q querier, sql string, args ...any) ([]model.Book, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

func scanOne(row pgx.Row, op string) (*model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Publisher, &b.ISBN,
		&b.Classification, &b.Category, &b.PageCount, &b.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, model.NewStorageError(op, err)
	}
	return &b, nil
}
