// Package storefront is the shopper-facing side of the catalog: an HTTP client for the
// catalog API and the browsing state that drives it.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	bookmodel "bookcatalog/internal/domains/book/model"
	"bookcatalog/internal/shared/response"

	"golang.org/x/time/rate"
)

// Client talks to the /api/v1 catalog endpoints and maps error envelopes back to the
// catalog's error types. It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outgoing requests per second. Callers block in Wait until a slot
// frees up or ctx is done.
func WithRateLimit(rps int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// NewClient targets baseURL, e.g. "http://localhost:8080/api/v1".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/books/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) ListPage(ctx context.Context, req bookmodel.PageRequest) (*bookmodel.Page, error) {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(req.PageSize))
	q.Set("pageIndex", strconv.Itoa(req.PageIndex))
	q.Set("sortDirection", req.Sort.String())
	for _, category := range req.Categories {
		q.Add("categories", category)
	}

	var page bookmodel.Page
	if err := c.do(ctx, http.MethodGet, "/books?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetBook(ctx context.Context, id int64) (*bookmodel.Book, error) {
	var book bookmodel.Book
	if err := c.do(ctx, http.MethodGet, bookPath(id), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) CreateBook(ctx context.Context, fields bookmodel.BookFields) (*bookmodel.Book, error) {
	var book bookmodel.Book
	if err := c.do(ctx, http.MethodPost, "/books", fields, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) UpdateBook(ctx context.Context, id int64, fields bookmodel.BookFields) (*bookmodel.Book, error) {
	var book bookmodel.Book
	if err := c.do(ctx, http.MethodPut, bookPath(id), fields, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, bookPath(id), nil, nil)
}

func bookPath(id int64) string {
	return "/books/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return bookmodel.NewStorageError(method+" "+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s %s (status %d): %w", method, path, resp.StatusCode, err)
	}

	if resp.StatusCode >= 300 || !env.Success {
		return decodeError(resp.StatusCode, &env)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

func decodeError(status int, env *envelope) error {
	code, message := "", http.StatusText(status)
	var details map[string]string
	if env.Error != nil {
		code, message, details = env.Error.Code, env.Error.Message, env.Error.Details
	}

	switch {
	case status == http.StatusBadRequest || code == response.CodeValidation:
		return &bookmodel.ValidationError{Message: message, Details: details}
	case status == http.StatusNotFound:
		return bookmodel.ErrBookNotFound
	case status == http.StatusServiceUnavailable:
		return bookmodel.NewStorageError("remote", errors.New(message))
	default:
		return fmt.Errorf("catalog api: status %d: %s", status, message)
	}
}
