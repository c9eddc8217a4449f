// Package listing implements the view state of the product list: the cached
// collection, debounced search, pagination, view mode and the create/edit
// form session, reconciled against the catalog backend.
package listing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"product-catalog-admin/internal/domain"
	"product-catalog-admin/internal/form"
	"product-catalog-admin/internal/store"
)

const (
	DefaultItemsPerPage = 9
	DefaultDebounce     = 500 * time.Millisecond
)

// User-facing messages. Backend failures collapse to one message per call site.
const (
	MsgLoadFailed   = "Failed to load data. Please try again."
	MsgSaveFailed   = "Failed to save product. Please try again."
	MsgDeleteFailed = "Failed to delete product. Please try again."
)

var (
	ErrSaveInFlight    = errors.New("listing: a save is already in progress")
	ErrNoForm          = errors.New("listing: no form is open")
	ErrInvalidForm     = errors.New("listing: form has validation errors")
	ErrProductNotFound = errors.New("listing: product not found")
	ErrDiscarded       = errors.New("listing: result discarded")
	ErrClosed          = errors.New("listing: controller closed")
)

// ViewMode selects between the card grid and the table.
type ViewMode string

const (
	ViewCard ViewMode = "card"
	ViewList ViewMode = "list"
)

// Valid reports whether m is a known mode.
func (m ViewMode) Valid() bool { return m == ViewCard || m == ViewList }

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces the timer source used for the search debounce.
func WithScheduler(s Scheduler) Option { return func(c *Controller) { c.sched = s } }

// WithDebounce sets the quiet interval before a search term applies.
func WithDebounce(d time.Duration) Option { return func(c *Controller) { c.debounce = d } }

// WithItemsPerPage sets the page size.
func WithItemsPerPage(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// WithClock sets the source of creation timestamps.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }

// Controller owns the product list state of one admin session. All
// transitions are serialised by mu; backend calls run with it released.
type Controller struct {
	store    store.CatalogStore
	sched    Scheduler
	debounce time.Duration
	perPage  int
	now      func() time.Time
	log      zerolog.Logger

	mu         sync.Mutex
	products   []domain.Product
	categories []domain.Category
	search     string
	debounced  string
	page       int
	mode       ViewMode
	loading    bool
	err        string
	saving     bool
	form       *form.Session

	pending   Task
	searchSeq uint64
	loadSeq   uint64
	closed    bool

	subs    map[int]chan struct{}
	nextSub int
}

// New returns a controller in the loading state. Call Load to populate it.
func New(s store.CatalogStore, opts ...Option) *Controller {
	c := &Controller{
		store:      s,
		sched:      timerScheduler{},
		debounce:   DefaultDebounce,
		perPage:    DefaultItemsPerPage,
		now:        time.Now,
		log:        zerolog.Nop(),
		products:   []domain.Product{},
		categories: []domain.Category{},
		page:       1,
		mode:       ViewCard,
		loading:    true,
		subs:       map[int]chan struct{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Loading ---

// Load fetches products and categories concurrently. It is all or nothing:
// if either request fails the collections are left untouched and the load
// error is set. A load superseded by a later one, or finishing after Close,
// is discarded.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.loadSeq++
	seq := c.loadSeq
	c.loading = true
	c.err = ""
	c.notifyLocked()
	c.mu.Unlock()

	var (
		products   []domain.Product
		categories []domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = c.store.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = c.store.ListCategories(gctx)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.loadSeq {
		return ErrDiscarded
	}
	c.loading = false
	if err != nil {
		c.log.Error().Err(err).Msg("loading catalog failed")
		c.err = MsgLoadFailed
		c.notifyLocked()
		return err
	}
	c.products = products
	c.categories = categories
	c.page = clampPage(c.page, c.totalPagesLocked())
	c.log.Debug().Int("products", len(products)).Int("categories", len(categories)).Msg("catalog loaded")
	c.notifyLocked()
	return nil
}

// Reload is the retry action: it resets the view to a fresh session and
// loads again.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.saving {
		c.mu.Unlock()
		return ErrSaveInFlight
	}
	c.cancelPendingLocked()
	c.products = []domain.Product{}
	c.categories = []domain.Category{}
	c.search, c.debounced = "", ""
	c.page = 1
	c.form = nil
	c.mu.Unlock()

	return c.Load(ctx)
}

// --- Search ---

// SetSearch records a keystroke. The visible term changes at once; the term
// used for filtering follows after the debounce interval has passed without
// another keystroke, and then the view returns to page 1.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || term == c.search {
		return
	}
	c.search = term
	c.cancelPendingLocked()
	seq := c.searchSeq
	c.pending = c.sched.AfterFunc(c.debounce, func() { c.applySearch(seq) })
	c.notifyLocked()
}

// FlushSearch applies the visible term immediately, as on Enter.
func (c *Controller) FlushSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	hadPending := c.pending != nil
	c.cancelPendingLocked()
	if hadPending || c.debounced != c.search {
		c.applySearchLocked()
	}
}

// ClearSearch empties the search box.
func (c *Controller) ClearSearch() { c.SetSearch("") }

func (c *Controller) applySearch(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.searchSeq {
		return
	}
	c.pending = nil
	c.applySearchLocked()
}

func (c *Controller) applySearchLocked() {
	c.debounced = c.search
	c.page = 1
	c.notifyLocked()
}

// cancelPendingLocked stops the pending debounce task. Bumping the sequence
// keeps a task that already started from applying.
func (c *Controller) cancelPendingLocked() {
	c.searchSeq++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

// --- Derived views ---

// Filtered returns the products matching the applied search term.
func (c *Controller) Filtered() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filter(c.products, c.debounced)
}

// TotalPages returns the page count of the filtered products.
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPagesLocked()
}

func (c *Controller) totalPagesLocked() int {
	return TotalPages(len(Filter(c.products, c.debounced)), c.perPage)
}

// Page returns the products on the current page.
func (c *Controller) Page() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Paginate(Filter(c.products, c.debounced), c.page, c.perPage)
}

// Products returns a copy of the full collection.
func (c *Controller) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Product(nil), c.products...)
}

// --- Navigation ---

// SetPage moves to page p, clamped to the available pages.
func (c *Controller) SetPage(p int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = clampPage(p, c.totalPagesLocked())
	c.notifyLocked()
}

// NextPage moves forward one page, stopping at the last.
func (c *Controller) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = clampPage(c.page+1, c.totalPagesLocked())
	c.notifyLocked()
}

// PrevPage moves back one page, stopping at the first.
func (c *Controller) PrevPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = clampPage(c.page-1, c.totalPagesLocked())
	c.notifyLocked()
}

// SetViewMode switches between card and list rendering.
func (c *Controller) SetViewMode(m ViewMode) {
	if !m.Valid() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
	c.notifyLocked()
}

// --- Subscriptions ---

// Subscribe returns a channel that receives a value after state changes.
// Notifications coalesce; a slow reader sees at least one per burst. The
// channel is closed by cancel or Close.
func (c *Controller) Subscribe() (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan struct{}, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

func (c *Controller) notifyLocked() {
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close stops the debounce task, ends subscriptions and discards backend
// results that arrive afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancelPendingLocked()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}
