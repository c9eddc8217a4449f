package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"product-catalog-admin/internal/domain"
	"product-catalog-admin/internal/metrics"
)

// Predefined errors for backend operations. Every failure of a call is
// wrapped with the sentinel of its call site.
var (
	ErrListProductsFailed   = errors.New("store: failed to fetch products")
	ErrListCategoriesFailed = errors.New("store: failed to fetch categories")
	ErrCreateFailed         = errors.New("store: failed to add product")
	ErrUpdateFailed         = errors.New("store: failed to update product")
	ErrDeleteFailed         = errors.New("store: failed to delete product")
)

// RequestIDHeader carries a per-call identifier to the backend.
const RequestIDHeader = "X-Request-ID"

// RESTStore implements CatalogStore against the catalog backend's REST API.
type RESTStore struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// Option configures a RESTStore.
type Option func(*RESTStore)

// WithHTTPClient replaces the HTTP client. The client's transport is used as is.
func WithHTTPClient(c *http.Client) Option {
	return func(s *RESTStore) { s.client = c }
}

// WithTimeout sets a per-call timeout. Zero means no timeout. It applies to
// a copy of the client, so a client passed with WithHTTPClient is not changed.
func WithTimeout(d time.Duration) Option {
	return func(s *RESTStore) { s.timeout = d }
}

// NewRESTStore creates a RESTStore for the backend rooted at baseURL.
func NewRESTStore(baseURL string, opts ...Option) *RESTStore {
	s := &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.timeout > 0 {
		client := *s.client
		client.Timeout = s.timeout
		s.client = &client
	}
	return s
}

// --- ProductStorer Implementation ---

func (s *RESTStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := s.do(ctx, "list_products", http.MethodGet, "/products", nil, &products, ErrListProductsFailed); err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *RESTStore) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	input.ID = ""
	var created domain.Product
	if err := s.do(ctx, "create_product", http.MethodPost, "/products", input, &created, ErrCreateFailed); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *RESTStore) UpdateProduct(ctx context.Context, id domain.ProductID, input domain.ProductInput) (*domain.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: missing product id", ErrUpdateFailed)
	}
	input.ID = id
	var updated domain.Product
	if err := s.do(ctx, "update_product", http.MethodPut, productPath(id), input, &updated, ErrUpdateFailed); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product. The response body is implementation
// defined and is discarded.
func (s *RESTStore) DeleteProduct(ctx context.Context, id domain.ProductID) error {
	if id == "" {
		return fmt.Errorf("%w: missing product id", ErrDeleteFailed)
	}
	return s.do(ctx, "delete_product", http.MethodDelete, productPath(id), nil, nil, ErrDeleteFailed)
}

// --- CategoryStorer Implementation ---

func (s *RESTStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := s.do(ctx, "list_categories", http.MethodGet, "/categories", nil, &categories, ErrListCategoriesFailed); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

func productPath(id domain.ProductID) string {
	return "/products/" + url.PathEscape(string(id))
}

// do performs one round trip. A nil out discards the response body.
func (s *RESTStore) do(ctx context.Context, op, method, path string, body, out any, sentinel error) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveBackend(op, start, err) }()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", sentinel, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", sentinel, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", sentinel, err)
	}
	return nil
}
