// Package api is the HTTP client for the library inventory REST API. Every
// call maps one endpoint, classifies failures into *APIError or
// *TransportError and decodes JSON bodies into pkg/model types.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/model"
)

const (
	// DefaultBasePath is the prefix of every endpoint.
	DefaultBasePath = "/api"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	headerRequestID = "X-Request-ID"
	maxErrorBody    = 64 << 10
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the inventory API.
type Client struct {
	baseURL   *url.URL
	basePath  string
	http      *http.Client
	timeout   time.Duration
	logger    Logger
	validate  bool
	requestID func() string
}

// New builds a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return nil, fmt.Errorf("api: base url is required")
	}
	parsed, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:   parsed,
		basePath:  DefaultBasePath,
		timeout:   DefaultTimeout,
		logger:    defaultLogger(),
		requestID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}

	if c.validate {
		if _, err := LoadContract(context.Background()); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// BaseURL returns the server URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListBooks fetches the books matching every non-empty filter. A null body
// yields an empty slice.
func (c *Client) ListBooks(ctx context.Context, state model.Filters) ([]model.Book, error) {
	var books []model.Book
	err := c.do(ctx, call{
		op:     "list books",
		method: http.MethodGet,
		route:  "/books",
		path:   "/books",
		query:  filters.Query(state),
		out:    &books,
	})
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

// GetBook fetches a single book.
func (c *Client) GetBook(ctx context.Context, id int) (model.Book, error) {
	var book model.Book
	err := c.do(ctx, call{
		op:     "get book",
		method: http.MethodGet,
		route:  "/books/{id}",
		path:   bookPath(id),
		out:    &book,
	})
	return book, err
}

// CreateBook stores a new book. The returned record is whatever the server
// echoed back; it is the zero Book when the body could not be decoded.
func (c *Client) CreateBook(ctx context.Context, book model.NewBook) (model.Book, error) {
	var created model.Book
	err := c.do(ctx, call{
		op:           "create book",
		method:       http.MethodPost,
		route:        "/books",
		path:         "/books",
		body:         book,
		out:          &created,
		optionalBody: true,
	})
	return created, err
}

// UpdateBook replaces the editable fields of a book.
func (c *Client) UpdateBook(ctx context.Context, id int, update model.BookUpdate) error {
	return c.do(ctx, call{
		op:     "update book",
		method: http.MethodPut,
		route:  "/books/{id}",
		path:   bookPath(id),
		body:   update,
	})
}

// DeleteBook removes a book.
func (c *Client) DeleteBook(ctx context.Context, id int) error {
	return c.do(ctx, call{
		op:     "delete book",
		method: http.MethodDelete,
		route:  "/books/{id}",
		path:   bookPath(id),
	})
}

// LendBook marks an available book as lent to borrower.
func (c *Client) LendBook(ctx context.Context, id int, borrower string) error {
	return c.do(ctx, call{
		op:     "lend book",
		method: http.MethodPost,
		route:  "/books/{id}/lend",
		path:   bookPath(id) + "/lend",
		body:   model.LendRequest{LentTo: borrower},
	})
}

// ReturnBook marks a lent book as available again.
func (c *Client) ReturnBook(ctx context.Context, id int) error {
	return c.do(ctx, call{
		op:     "return book",
		method: http.MethodPost,
		route:  "/books/{id}/return",
		path:   bookPath(id) + "/return",
	})
}

type call struct {
	op     string
	method string
	// route is the contract path template, path the concrete one.
	route string
	path  string
	query string
	body  any
	out   any
	// optionalBody tolerates a 2xx response that does not decode into out.
	optionalBody bool
}

func (c *Client) do(ctx context.Context, in call) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var payload []byte
	if in.body != nil {
		encoded, err := jsonAPI.Marshal(in.body)
		if err != nil {
			return fmt.Errorf("api: %s: encode body: %w", in.op, err)
		}
		if c.validate {
			if err := checkContract(ctx, in.method, in.route, encoded); err != nil {
				return &ContractError{Op: in.op, Err: err}
			}
		}
		payload = encoded
	}

	target := c.endpoint(in.path, in.query)
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, in.method, target, reader)
	if err != nil {
		return &TransportError{Op: in.op, Err: err}
	}
	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "op", in.op, "url", target, "request_id", requestID, "error", err)
		return &TransportError{Op: in.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: in.op, Err: fmt.Errorf("read body: %w", err)}
	}
	c.logger.Debug("api request",
		"op", in.op,
		"method", in.method,
		"url", target,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(in.op, resp, body)
	}

	if in.out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := jsonAPI.Unmarshal(body, in.out); err != nil {
		if in.optionalBody {
			c.logger.Debug("api response body ignored", "op", in.op, "request_id", requestID, "error", err)
			return nil
		}
		return &TransportError{Op: in.op, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

func (c *Client) endpoint(path, query string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + c.basePath + path
	u.RawPath = ""
	u.RawQuery = query
	return u.String()
}

func newAPIError(op string, resp *http.Response, body []byte) *APIError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	apiErr := &APIError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := jsonAPI.Unmarshal(body, &payload); err == nil {
		apiErr.JSON = true
		apiErr.Message = payload.Error
	}
	return apiErr
}

func bookPath(id int) string {
	return "/books/" + strconv.Itoa(id)
}
