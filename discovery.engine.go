package bookshelf

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Phase is the position of a run in the discovery cascade.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseQueryBuilt
	PhaseNoQueries
	PhaseAttempting
	PhasePrimaryFailed
	PhaseProxyAttempting
	PhaseProxySucceeded
	PhaseProxyFailed
	PhasePrimaryEmpty
	PhasePrimaryFound
	PhaseExhausted
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseQueryBuilt:
		return "query-built"
	case PhaseNoQueries:
		return "no-queries"
	case PhaseAttempting:
		return "attempting"
	case PhasePrimaryFailed:
		return "primary-failed"
	case PhaseProxyAttempting:
		return "proxy-attempting"
	case PhaseProxySucceeded:
		return "proxy-succeeded"
	case PhaseProxyFailed:
		return "proxy-failed"
	case PhasePrimaryEmpty:
		return "primary-empty"
	case PhasePrimaryFound:
		return "primary-found"
	case PhaseExhausted:
		return "exhausted"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition can follow p.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseNoQueries, PhaseProxySucceeded, PhasePrimaryFound, PhaseExhausted, PhaseCancelled:
		return true
	}
	return false
}

// Status is the externally visible result of a run.
type Status int

const (
	StatusPending Status = iota
	StatusFound
	StatusNotFound
	StatusCancelled
)

// Source tells which transport produced the books of an outcome.
type Source string

const (
	SourcePrimary Source = "primary"
	SourceProxy   Source = "proxy"
)

// Outcome is what a finished run delivers to its subscribers.
type Outcome struct {
	Status Status
	Books  []SimilarBook
	Source Source
	Query  string
}

// Engine runs similar-book discoveries against a search service.
type Engine struct {
	logger   *zap.Logger
	config   DiscoveryConfig
	searcher Searcher
	seq      atomic.Uint64
}

// NewEngine provides an engine. Zero limits in config fall back
// to the defaults, an empty proxy endpoint disables the fallback.
func NewEngine(logger *zap.Logger, config DiscoveryConfig, searcher Searcher) *Engine {
	defaults := DefaultDiscoveryConfig()
	if config.MaxQueryTokens <= 0 {
		config.MaxQueryTokens = defaults.MaxQueryTokens
	}
	if config.PrimaryLimit <= 0 {
		config.PrimaryLimit = defaults.PrimaryLimit
	}
	if config.ProxyLimit <= 0 {
		config.ProxyLimit = defaults.ProxyLimit
	}
	return &Engine{logger: logger, config: config, searcher: searcher}
}

// Start begins a discovery for book and returns its handle immediately.
// Cancelling ctx cancels the run. A book without any searchable field
// yields a run that is already finished with no books and which never
// touched the network.
func (e *Engine) Start(ctx context.Context, book Book) *Run {
	rctx, cancel := context.WithCancel(ctx)
	r := &Run{
		logger:    e.logger.With(zap.Uint64("run", e.seq.Add(1)), zap.String("book", book.ID)),
		book:      book,
		ctx:       rctx,
		cancelCtx: cancel,
		done:      make(chan struct{}),
	}
	r.stop = context.AfterFunc(ctx, r.Cancel)

	r.queries = BuildQueries(book)
	if !r.transition(PhaseQueryBuilt, -1) {
		r.release()
		return r
	}
	if len(r.queries) == 0 {
		r.finish(PhaseNoQueries, Outcome{Status: StatusNotFound})
		r.release()
		return r
	}

	go e.cascade(r)
	return r
}

// cascade tries each candidate in order and stops at the first one that
// yields books. The proxy is only asked after a primary failure, never
// after an empty primary success.
func (e *Engine) cascade(r *Run) {
	defer r.release()

	for i, candidate := range r.queries {
		query := CapTokens(candidate, e.config.MaxQueryTokens)
		if !r.transition(PhaseAttempting, i) {
			return
		}

		primary := e.primaryURL(query)
		books, err := e.searcher.Search(r.ctx, primary)
		if err == nil && len(books) > 0 {
			r.finish(PhasePrimaryFound, found(books, e.config.PrimaryLimit, SourcePrimary, query))
			return
		}
		if err == nil {
			if !r.transition(PhasePrimaryEmpty, i) {
				return
			}
			continue
		}

		r.logger.Debug("discovery: primary search failed", zap.String("query", query), zap.Error(err))
		if !r.transition(PhasePrimaryFailed, i) {
			return
		}
		if proxy, ok := e.proxyURL(primary); ok {
			if !r.transition(PhaseProxyAttempting, i) {
				return
			}
			books, err = e.searcher.Search(r.ctx, proxy)
			if err == nil && len(books) > 0 {
				r.finish(PhaseProxySucceeded, found(books, e.config.ProxyLimit, SourceProxy, query))
				return
			}
			if err != nil {
				r.logger.Debug("discovery: proxy search failed", zap.String("query", query), zap.Error(err))
			}
		}
		if !r.transition(PhaseProxyFailed, i) {
			return
		}
	}

	r.finish(PhaseExhausted, Outcome{Status: StatusNotFound})
}

func (e *Engine) primaryURL(query string) string {
	return strings.TrimSuffix(e.config.SearchEndpoint, "/") + "/" + url.PathEscape(query)
}

// proxyURL wraps the primary request url into the proxy endpoint.
func (e *Engine) proxyURL(primary string) (string, bool) {
	if e.config.ProxyEndpoint == "" {
		return "", false
	}
	u, err := url.Parse(e.config.ProxyEndpoint)
	if err != nil {
		e.logger.Warn("discovery: invalid proxy endpoint", zap.String("endpoint", e.config.ProxyEndpoint), zap.Error(err))
		return "", false
	}
	q := u.Query()
	q.Set("url", primary)
	u.RawQuery = q.Encode()
	return u.String(), true
}

func found(books []SimilarBook, limit int, source Source, query string) Outcome {
	if len(books) > limit {
		books = books[:limit]
	}
	return Outcome{
		Status: StatusFound,
		Books:  append([]SimilarBook(nil), books...),
		Source: source,
		Query:  query,
	}
}

// Run is the handle of one discovery for one book.
//
// Once Cancel returns, none of the run's subscribers will be called
// anymore: the cancelled flag is checked under the same lock that
// delivery holds. Subscribers run with that lock held and therefore
// must not call back into the run.
type Run struct {
	logger    *zap.Logger
	book      Book
	queries   []string
	ctx       context.Context
	cancelCtx context.CancelFunc
	stop      func() bool
	done      chan struct{}
	once      sync.Once

	mu          sync.Mutex
	phase       Phase
	attempt     int
	cancelled   bool
	outcome     Outcome
	subscribers []func(Outcome)
}

// Book returns the book the run searches for.
func (r *Run) Book() Book {
	return r.book
}

// Queries returns the candidates of the cascade, before token capping.
func (r *Run) Queries() []string {
	return append([]string(nil), r.queries...)
}

// Phase returns the current phase and the index of the candidate it
// relates to (-1 before the first attempt).
func (r *Run) Phase() (Phase, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase, r.attempt
}

// Cancel stops the run. It is irrevocable and has no effect on a run
// which already delivered its outcome.
func (r *Run) Cancel() {
	r.mu.Lock()
	if r.phase.Terminal() {
		r.mu.Unlock()
		r.cancelCtx()
		return
	}
	r.markCancelled()
	r.mu.Unlock()

	r.cancelCtx()
	r.logger.Debug("discovery: run cancelled")
}

// Cancelled reports whether the run was cancelled before delivering.
func (r *Run) Cancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

// Subscribe registers fn to receive the outcome. On a finished run fn is
// called right away, on a cancelled run it is never called.
func (r *Run) Subscribe(fn func(Outcome)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.cancelled:
	case r.phase.Terminal():
		fn(r.outcome)
	default:
		r.subscribers = append(r.subscribers, fn)
	}
}

// Outcome returns the result once the run is terminal. ok is false while
// the run is still in progress.
func (r *Run) Outcome() (Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome, r.phase.Terminal()
}

// Done is closed when the run stops working: after delivery, or once a
// cancelled run observed its cancellation.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run is done or ctx ends.
func (r *Run) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-r.done:
		o, _ := r.Outcome()
		return o, nil
	case <-ctx.Done():
		return Outcome{Status: StatusPending}, ctx.Err()
	}
}

// transition moves the run to phase unless it was cancelled.
func (r *Run) transition(phase Phase, attempt int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stale() {
		return false
	}
	r.phase = phase
	r.attempt = attempt
	r.logger.Debug("discovery: phase", zap.Stringer("phase", phase), zap.Int("attempt", attempt))
	return true
}

// finish delivers the outcome unless the run was cancelled.
func (r *Run) finish(phase Phase, o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stale() {
		return
	}
	r.phase = phase
	r.outcome = o
	r.logger.Debug("discovery: run finished", zap.Stringer("phase", phase), zap.Int("books", len(o.Books)), zap.String("source", string(o.Source)))
	for _, fn := range r.subscribers {
		fn(o)
	}
	r.subscribers = nil
}

// stale reports whether the run was cancelled, either through Cancel or
// through its parent context. It must be called with the lock held.
func (r *Run) stale() bool {
	if !r.cancelled && r.ctx.Err() != nil {
		r.markCancelled()
	}
	return r.cancelled
}

// markCancelled must be called with the lock held.
func (r *Run) markCancelled() {
	r.cancelled = true
	r.phase = PhaseCancelled
	r.outcome = Outcome{Status: StatusCancelled}
	r.subscribers = nil
}

// release frees the run context and marks the run done.
func (r *Run) release() {
	r.once.Do(func() {
		r.stop()
		r.cancelCtx()
		close(r.done)
	})
}
