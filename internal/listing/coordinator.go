// Package listing coordinates the paginated, searchable and filterable collection shown on a listing page.
package listing

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"strconv"
	"sync"
	"time"

	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/logging"
	"github.com/myrjola/holocron/internal/models"
	"github.com/myrjola/holocron/internal/swapi"
)

// DefaultDebounce is the quiet period after the last search keystroke before the search is committed.
const DefaultDebounce = 300 * time.Millisecond

// Fetcher loads one page of a collection. [swapi.Resource.List] satisfies it.
type Fetcher[T any] func(ctx context.Context, params swapi.ListParams) (models.Page[T], error)

// State is a snapshot of a Coordinator.
type State[T any] struct {
	Page       int
	SearchTerm string
	Filters    map[string]string
	Items      []T
	TotalPages int
	Total      int
	Loading    bool
	// Err is the user-facing message of the latest failed request. It's cleared when a new request is issued.
	Err string
	// Seq is the sequence token of the latest issued request.
	Seq uint64
}

// HasPrev reports whether PrevPage would issue a request.
func (s State[T]) HasPrev() bool {
	return s.Page > 1
}

// HasNext reports whether NextPage would issue a request.
func (s State[T]) HasNext() bool {
	return s.Page < s.TotalPages
}

// Query returns the part of the state that is reflected in the page URL.
func (s State[T]) Query() Query {
	return Query{Page: s.Page, Search: s.SearchTerm, Filters: maps.Clone(s.Filters)}
}

// Coordinator owns the page, search term and filters of one listing and the requests they drive.
//
// Every change issues exactly one request tagged with a monotonic sequence token. Only the response to the latest
// issued request is applied, so a slow response can never overwrite the result of a newer request. All methods are
// safe for concurrent use.
type Coordinator[T any] struct {
	fetch    Fetcher[T]
	logger   *slog.Logger
	debounce time.Duration
	onUpdate func(State[T])

	ctx    context.Context //nolint:containedctx // parents every request, cancelled on Close
	cancel context.CancelFunc

	mu          sync.Mutex
	state       State[T]
	pendingTerm string
	timer       *time.Timer
	searchGen   uint64
	// limit is the page size of the next request only. Zero leaves it to the API.
	limit int
	// settled is non-nil while a debounce is pending or the latest request is in flight.
	settled chan struct{}
	closed  bool
}

// Option configures a Coordinator.
type Option[T any] func(*Coordinator[T])

// WithDebounce overrides DefaultDebounce.
func WithDebounce[T any](d time.Duration) Option[T] {
	return func(c *Coordinator[T]) {
		c.debounce = d
	}
}

// WithLogger sets the logger of the request lifecycle. Logs are discarded by default.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(c *Coordinator[T]) {
		c.logger = logger
	}
}

// WithOnUpdate registers fn to be called with a snapshot after every state change. fn is called without holding
// the coordinator lock, so it may call back into the coordinator.
func WithOnUpdate[T any](fn func(State[T])) Option[T] {
	return func(c *Coordinator[T]) {
		c.onUpdate = fn
	}
}

// WithQuery starts the coordinator from q instead of the first unfiltered page.
func WithQuery[T any](q Query) Option[T] {
	return func(c *Coordinator[T]) {
		c.state.Page = max(q.Page, 1)
		c.state.SearchTerm = q.Search
		c.state.Filters = compact(q.Filters)
	}
}

// New creates a Coordinator. Requests run with ctx as parent until Close is called.
func New[T any](ctx context.Context, fetch Fetcher[T], opts ...Option[T]) *Coordinator[T] {
	ctx, cancel := context.WithCancel(ctx)
	c := &Coordinator[T]{
		fetch:    fetch,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce: DefaultDebounce,
		onUpdate: nil,
		ctx:      ctx,
		cancel:   cancel,
		mu:       sync.Mutex{},
		state: State[T]{
			Page:       1,
			SearchTerm: "",
			Filters:    map[string]string{},
			Items:      nil,
			TotalPages: 0,
			Total:      0,
			Loading:    false,
			Err:        "",
			Seq:        0,
		},
		pendingTerm: "",
		timer:       nil,
		searchGen:   0,
		limit:       0,
		settled:     nil,
		closed:      false,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount issues the first request.
func (c *Coordinator[T]) Mount() {
	c.mutate(func() bool { return true })
}

// Search schedules term to be committed after the debounce period. Calls within the period replace the pending
// term and restart the period, so a burst of keystrokes results in at most one request.
func (c *Coordinator[T]) Search(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pendingTerm = term
	c.searchGen++
	gen := c.searchGen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.commitSearch(gen)
	})
	c.markBusy()
}

func (c *Coordinator[T]) commitSearch(gen uint64) {
	c.mutate(func() bool {
		if gen != c.searchGen {
			return false
		}
		c.timer = nil
		if c.pendingTerm == c.state.SearchTerm {
			return false
		}
		c.state.SearchTerm = c.pendingTerm
		c.state.Page = 1
		return true
	})
}

// SetFilter sets the filter key to value and returns to the first page. An empty value removes the key.
func (c *Coordinator[T]) SetFilter(key, value string) {
	c.mutate(func() bool {
		if c.state.Filters[key] == value {
			return false
		}
		filters := maps.Clone(c.state.Filters)
		if value == "" {
			delete(filters, key)
		} else {
			filters[key] = value
		}
		c.state.Filters = filters
		c.state.Page = 1
		return true
	})
}

// NextPage moves to the following page. It's a no-op on the last known page.
func (c *Coordinator[T]) NextPage() {
	c.mutate(func() bool {
		if c.state.Page >= c.state.TotalPages {
			return false
		}
		c.state.Page++
		return true
	})
}

// PrevPage moves to the preceding page. It's a no-op on the first page.
func (c *Coordinator[T]) PrevPage() {
	c.mutate(func() bool {
		if c.state.Page <= 1 {
			return false
		}
		c.state.Page--
		return true
	})
}

// Reload issues a request for the current state with overrides merged into it. The keys "page" and "search" set
// the page and the search term, "limit" sets the page size of this one request and every other key sets a filter,
// where an empty value drops it. A search override discards the pending search.
func (c *Coordinator[T]) Reload(overrides map[string]string) {
	c.mutate(func() bool {
		for key, value := range overrides {
			switch key {
			case "page":
				if n, err := strconv.Atoi(value); err == nil && n > 0 {
					c.state.Page = n
				}
			case "limit":
				if n, err := strconv.Atoi(value); err == nil && n > 0 {
					c.limit = n
				}
			case "search":
				c.state.SearchTerm = value
				c.searchGen++
				if c.timer != nil {
					c.timer.Stop()
					c.timer = nil
				}
			default:
				filters := maps.Clone(c.state.Filters)
				if value == "" {
					delete(filters, key)
				} else {
					filters[key] = value
				}
				c.state.Filters = filters
			}
		}
		return true
	})
}

// Snapshot returns the current state.
func (c *Coordinator[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Wait blocks until no search is pending and the latest request has settled, then returns the state.
func (c *Coordinator[T]) Wait(ctx context.Context) (State[T], error) {
	for {
		c.mu.Lock()
		settled := c.settled
		state := c.snapshot()
		c.mu.Unlock()
		if settled == nil {
			return state, nil
		}
		select {
		case <-settled:
		case <-ctx.Done():
			return state, errors.Wrap(ctx.Err(), "wait for listing to settle")
		}
	}
}

// Close cancels the pending search and every outstanding request. Responses arriving afterwards are dropped and
// further calls are no-ops.
func (c *Coordinator[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.searchGen++
	c.cancel()
	c.state.Loading = false
	c.settle()
}

// mutate runs change under the lock and issues a request when it reports a change.
func (c *Coordinator[T]) mutate(change func() bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if !change() {
		c.settle()
		c.mu.Unlock()
		return
	}
	seq, params := c.issue()
	state := c.snapshot()
	c.mu.Unlock()

	c.notify(state)
	go c.run(seq, params)
}

// issue bumps the sequence token and marks the coordinator as loading. The request mirrors the state, so the
// response always lands on the state it was issued for. The caller must hold the lock.
func (c *Coordinator[T]) issue() (uint64, swapi.ListParams) {
	c.state.Seq++
	c.state.Loading = true
	c.state.Err = ""
	c.markBusy()

	params := swapi.ListParams{
		Page:    c.state.Page,
		Limit:   c.limit,
		Search:  c.state.SearchTerm,
		Filters: maps.Clone(c.state.Filters),
	}
	c.limit = 0
	return c.state.Seq, params
}

func (c *Coordinator[T]) run(seq uint64, params swapi.ListParams) {
	ctx := logging.WithAttrs(c.ctx, slog.Uint64("seq", seq))
	c.logger.LogAttrs(ctx, slog.LevelDebug, "issue listing request",
		slog.Int("page", params.Page), slog.String("search", params.Search), slog.Any("filters", params.Filters))

	page, err := c.fetch(ctx, params)

	c.mu.Lock()
	if c.closed || seq != c.state.Seq {
		latest := c.state.Seq
		c.mu.Unlock()
		c.logger.LogAttrs(ctx, slog.LevelDebug, "discard stale listing response", slog.Uint64("latest_seq", latest))
		return
	}
	c.state.Loading = false
	if err != nil {
		c.state.Err = swapi.Message(err)
		c.logger.LogAttrs(ctx, slog.LevelWarn, "listing request failed", errors.SlogError(err))
	} else {
		c.state.Items = page.Data
		c.state.TotalPages = page.Meta.TotalPages
		c.state.Total = page.Meta.Total
	}
	c.settle()
	state := c.snapshot()
	c.mu.Unlock()

	c.notify(state)
}

func (c *Coordinator[T]) markBusy() {
	if c.settled == nil {
		c.settled = make(chan struct{})
	}
}

// settle releases waiters when nothing is pending. The caller must hold the lock.
func (c *Coordinator[T]) settle() {
	if c.settled == nil || c.timer != nil || c.state.Loading {
		return
	}
	close(c.settled)
	c.settled = nil
}

func (c *Coordinator[T]) snapshot() State[T] {
	s := c.state
	s.Filters = maps.Clone(c.state.Filters)
	return s
}

func (c *Coordinator[T]) notify(state State[T]) {
	if c.onUpdate != nil {
		c.onUpdate(state)
	}
}

func compact(filters map[string]string) map[string]string {
	out := make(map[string]string, len(filters))
	for key, value := range filters {
		if key != "" && value != "" {
			out[key] = value
		}
	}
	return out
}
