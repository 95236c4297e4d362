// Package dashboard drives the catalog screen: it loads books and genres
// into the store, tracks the Loading/Error/Ready phase, debounces search
// input, and refetches when a mutation invalidates the cache.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bookverseapp/bookverse/internal/debounce"
	"github.com/bookverseapp/bookverse/internal/domain"
	"github.com/bookverseapp/bookverse/internal/errors"
	"github.com/bookverseapp/bookverse/internal/gateway"
	"github.com/bookverseapp/bookverse/internal/notify"
	"github.com/bookverseapp/bookverse/internal/selector"
	"github.com/bookverseapp/bookverse/internal/store"
)

// Phase is the dashboard load state.
type Phase int

// Dashboard phases.
const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Catalog is the part of the gateway the dashboard uses.
type Catalog interface {
	ListBooks(ctx context.Context) (gateway.Result[[]domain.Book], error)
	ListGenres(ctx context.Context) (gateway.Result[[]domain.Genre], error)
	DeleteBook(ctx context.Context, bookID int64) error
	OnInvalidate(fn gateway.InvalidationHook) (remove func())
}

// Options configures a Controller.
type Options struct {
	Logger   *slog.Logger
	Notifier *notify.Notifier
	// SearchDebounce delays search text before it reaches the store.
	// Zero means debounce.DefaultSearchDuration.
	SearchDebounce time.Duration
}

// View is everything the screen renders, derived on each call.
type View struct {
	Err     error
	Filter  domain.Filter
	Books   []domain.Book // visible books, after the filter
	Genres  []domain.Genre
	Summary selector.Summary
	Total   int // books before filtering
	Phase   Phase
}

// SelectedGenre returns the genre the filter selects, if any.
func (v View) SelectedGenre() (domain.Genre, bool) {
	if v.Filter.SelectedGenreID == nil {
		return domain.Genre{}, false
	}
	if g, ok := domain.FindGenre(v.Genres, *v.Filter.SelectedGenreID); ok {
		return g, true
	}
	return domain.Genre{ID: *v.Filter.SelectedGenreID}, true
}

// Controller owns the dashboard state machine.
type Controller struct {
	catalog  Catalog
	store    *store.Store
	logger   *slog.Logger
	notifier *notify.Notifier
	search   *debounce.Latest[string]

	removeHook  func()
	unsubscribe func()

	mu        sync.Mutex
	phase     Phase
	err       error
	attempt   uint64
	listeners []func()
}

// New creates a controller and registers its refetch hook on catalog.
// Call Close to detach it.
func New(catalog Catalog, st *store.Store, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.New(logger, 0)
	}
	wait := opts.SearchDebounce
	if wait <= 0 {
		wait = debounce.DefaultSearchDuration
	}

	c := &Controller{
		catalog:  catalog,
		store:    st,
		logger:   logger,
		notifier: notifier,
		phase:    PhaseLoading,
	}
	c.search = debounce.NewLatest(wait, func(q string) {
		st.Dispatch(store.SetSearchQuery{Query: q})
	})
	c.removeHook = catalog.OnInvalidate(c.onInvalidate)
	c.unsubscribe = st.Subscribe(func(store.State) { c.changed() })
	return c
}

// Close detaches the controller from the catalog and the store and drops
// any pending search update.
func (c *Controller) Close() {
	c.search.Cancel()
	c.removeHook()
	c.unsubscribe()
}

// OnChange registers fn to run after any phase or store change.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Load enters Loading, fetches books and genres concurrently, and ends in
// Ready when both succeed or Error when either fails. The returned error is
// the one the view shows, or a stale error when a newer Load started first.
func (c *Controller) Load(ctx context.Context) error {
	attempt := c.begin()

	var (
		books  gateway.Result[[]domain.Book]
		genres gateway.Result[[]domain.Genre]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := c.catalog.ListBooks(gctx)
		if err != nil {
			return err
		}
		books = res
		return nil
	})
	g.Go(func() error {
		res, err := c.catalog.ListGenres(gctx)
		if err != nil {
			return err
		}
		genres = res
		return nil
	})
	err := g.Wait()

	if books.Seq != 0 {
		c.store.Dispatch(store.BooksLoaded{Books: books.Data, Seq: books.Seq})
	}
	if genres.Seq != 0 {
		c.store.Dispatch(store.GenresLoaded{Genres: genres.Data, Seq: genres.Seq})
	}

	return c.finish(attempt, err)
}

// Retry leaves the Error state by loading again. It also reloads from Ready.
func (c *Controller) Retry(ctx context.Context) error {
	c.logger.Info("retry requested")
	return c.Load(ctx)
}

// onInvalidate refetches after a mutation, before the mutation returns.
// A refetch failure moves the view to Error; the mutation itself succeeded.
func (c *Controller) onInvalidate(ctx context.Context, tags []gateway.Tag) {
	if !slices.Contains(tags, gateway.TagBooks) && !slices.Contains(tags, gateway.TagGenres) {
		return
	}
	c.logger.Debug("refetching after invalidation", "tags", tags)
	_ = c.Load(ctx)
}

func (c *Controller) begin() uint64 {
	c.mu.Lock()
	c.attempt++
	attempt := c.attempt
	from := c.phase
	c.phase = PhaseLoading
	c.err = nil
	c.mu.Unlock()

	c.logger.Debug("dashboard phase", "from", from.String(), "to", PhaseLoading.String(), "attempt", attempt)
	c.changed()
	return attempt
}

// finish records the outcome of attempt unless a newer attempt started,
// in which case the result is dropped and a stale error returned.
func (c *Controller) finish(attempt uint64, err error) error {
	c.mu.Lock()
	if attempt != c.attempt {
		c.mu.Unlock()
		c.logger.Debug("superseded load finished", "attempt", attempt)
		stale := errors.Stale(fmt.Sprintf("load attempt %d superseded", attempt))
		if err != nil {
			return stale.WithCause(err)
		}
		return stale
	}
	if err != nil {
		c.phase = PhaseError
		c.err = err
	} else {
		c.phase = PhaseReady
	}
	phase := c.phase
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("dashboard load failed", "error", err, "attempt", attempt)
	} else {
		c.logger.Debug("dashboard phase", "to", phase.String(), "attempt", attempt)
	}
	c.changed()
	return err
}

func (c *Controller) changed() {
	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// View derives the screen contents from the store and the phase.
func (c *Controller) View() View {
	c.mu.Lock()
	phase, err := c.phase, c.err
	c.mu.Unlock()

	s := c.store.State()
	books := domain.NameGenres(s.Books.Items, s.Genres.Items)
	visible := selector.ApplyFilter(books, s.Filter)
	return View{
		Phase:   phase,
		Err:     err,
		Filter:  s.Filter,
		Books:   visible,
		Genres:  s.Genres.Items,
		Summary: selector.Summarize(visible),
		Total:   len(books),
	}
}

// SetSearch records search text; it reaches the store once typing pauses.
func (c *Controller) SetSearch(query string) {
	c.search.Set(query)
}

// SubmitSearch applies query right away, dropping any pending update.
func (c *Controller) SubmitSearch(query string) {
	c.search.Flush(query)
}

// SelectGenre filters by genre; nil selects all genres.
func (c *Controller) SelectGenre(genreID *int64) {
	c.store.Dispatch(store.SetSelectedGenre{GenreID: genreID})
}

// CycleGenre moves the genre selection by delta through
// "All Genres", then each genre in order, wrapping around.
func (c *Controller) CycleGenre(delta int) {
	s := c.store.State()
	options := len(s.Genres.Items) + 1 // index 0 is "All Genres"

	current := 0
	if s.Filter.SelectedGenreID != nil {
		for i, g := range s.Genres.Items {
			if g.ID == *s.Filter.SelectedGenreID {
				current = i + 1
				break
			}
		}
	}

	next := ((current+delta)%options + options) % options
	if next == 0 {
		c.SelectGenre(nil)
		return
	}
	c.SelectGenre(domain.GenreID(s.Genres.Items[next-1].ID))
}

// ResetFilters clears search and genre, dropping any pending search update.
func (c *Controller) ResetFilters() {
	c.search.Cancel()
	c.store.Dispatch(store.ResetFilters{})
}

// DeleteBook deletes a book and reports the outcome as a toast. The book
// list is refetched before it returns.
func (c *Controller) DeleteBook(ctx context.Context, bookID int64) error {
	if err := c.catalog.DeleteBook(ctx, bookID); err != nil {
		c.notifier.BookDeleteFailed(err)
		return err
	}
	c.notifier.BookDeleted()
	return nil
}

// Notifier returns the toast queue used by the controller.
func (c *Controller) Notifier() *notify.Notifier {
	return c.notifier
}
