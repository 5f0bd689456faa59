package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/logging"
)

var (
	ErrAlreadyMounted = errors.New("feed already mounted")
	ErrClosed         = errors.New("feed closed")
)

const (
	DefaultPageSize        = 10
	DefaultScrollThreshold = 200
)

type State int

const (
	Idle State = iota
	Connecting
	Live
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Live:
		return "live"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// PageSource fetches one page of trips older than cursor. An empty cursor
// asks for the first page.
type PageSource interface {
	ListTrips(ctx context.Context, limit int, cursor string) ([]models.Trip, error)
}

// PushStream is the live channel as seen by the feed.
type PushStream interface {
	Start(ctx context.Context)
	Messages() <-chan models.Trip
	Opened() <-chan struct{}
	Close() error
}

type Options struct {
	PageSize        int
	ScrollThreshold float64
	// Dedup hides paginated trips already present in the live segment.
	Dedup  bool
	Logger logging.Logger
}

// Item is one rendered row.
type Item struct {
	Trip models.Trip
	New  bool
}

// Status is a point-in-time summary for the UI.
type Status struct {
	State    State
	Fetching bool
	HasMore  bool
	Live     int
	Paged    int
	LastErr  error
}

type liveItem struct {
	trip  models.Trip
	fresh bool
}

type Reconciler struct {
	source PageSource
	push   PushStream
	opts   Options
	log    logging.Logger

	mu       sync.Mutex
	state    State
	live     []liveItem
	pages    [][]models.Trip
	cursor   string
	hasMore  bool
	fetching bool
	lastErr  error
	ctx      context.Context
	cancel   context.CancelFunc
	changes  chan struct{}

	wg sync.WaitGroup
}

func NewReconciler(source PageSource, push PushStream, opts Options) *Reconciler {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.ScrollThreshold <= 0 {
		opts.ScrollThreshold = DefaultScrollThreshold
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &Reconciler{
		source:  source,
		push:    push,
		opts:    opts,
		log:     log.With("component", "feed"),
		hasMore: true,
		changes: make(chan struct{}, 1),
	}
}

// Mount opens the push channel and requests the first page concurrently.
func (r *Reconciler) Mount(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case Idle:
	case Closed:
		return ErrClosed
	default:
		return ErrAlreadyMounted
	}

	r.ctx, r.cancel = context.WithCancel(ctx)
	r.state = Connecting

	r.push.Start(r.ctx)
	r.wg.Add(1)
	go r.consumePush(r.ctx)

	r.startFetchLocked()
	return nil
}

// OnScroll requests the next page when the viewport is within the
// threshold of the bottom, nothing is in flight and more pages exist.
// It reports whether a fetch was started.
func (r *Reconciler) OnScroll(distanceFromBottom float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Connecting && r.state != Live {
		return false
	}
	if distanceFromBottom >= r.opts.ScrollThreshold || r.fetching || !r.hasMore {
		return false
	}
	r.startFetchLocked()
	return true
}

func (r *Reconciler) startFetchLocked() {
	ctx := r.ctx
	r.fetching = true
	cursor := r.cursor
	r.notifyLocked()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		trips, err := r.source.ListTrips(ctx, r.opts.PageSize, cursor)

		r.mu.Lock()
		defer r.mu.Unlock()

		if r.state == Closed || ctx.Err() != nil {
			r.log.Debug(ctx, "discarding page after teardown", "cursor", cursor)
			return
		}

		r.fetching = false
		if r.state == Connecting {
			r.state = Live
		}

		if err != nil {
			r.lastErr = err
			r.log.Warn(ctx, "page fetch failed", "cursor", cursor, "err", err)
			r.notifyLocked()
			return
		}

		r.lastErr = nil
		if len(trips) == 0 {
			r.hasMore = false
		} else {
			r.pages = append(r.pages, trips)
			r.cursor = trips[len(trips)-1].CreatedAt
		}
		r.log.Debug(ctx, "page loaded", "count", len(trips), "cursor", r.cursor, "has_more", r.hasMore)
		r.notifyLocked()
	}()
}

func (r *Reconciler) consumePush(ctx context.Context) {
	defer r.wg.Done()

	opened := r.push.Opened()
	msgs := r.push.Messages()

	for {
		select {
		case <-ctx.Done():
			return
		case <-opened:
			opened = nil
			r.mu.Lock()
			if r.state == Connecting {
				r.state = Live
				r.notifyLocked()
			}
			r.mu.Unlock()
		case trip, ok := <-msgs:
			if !ok {
				return
			}
			r.mu.Lock()
			if r.state == Closed {
				r.mu.Unlock()
				return
			}
			r.live = append([]liveItem{{trip: trip, fresh: true}}, r.live...)
			r.notifyLocked()
			r.mu.Unlock()
		}
	}
}

func (r *Reconciler) notifyLocked() {
	if r.state == Closed {
		return
	}
	select {
	case r.changes <- struct{}{}:
	default:
	}
}

// Changes signals that the feed state changed. Signals are coalesced; the
// channel is closed by Close.
func (r *Reconciler) Changes() <-chan struct{} { return r.changes }

// View returns the filtered merged list without consuming new flags.
func (r *Reconciler) View(f Filter) []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.projectLocked(f)
}

// Render returns the filtered merged list and clears every new flag, so a
// pushed trip is reported as new by exactly one Render.
func (r *Reconciler) Render(f Filter) []Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.projectLocked(f)
	for i := range r.live {
		r.live[i].fresh = false
	}
	return items
}

func (r *Reconciler) projectLocked(f Filter) []Item {
	items := make([]Item, 0, len(r.live)+len(r.pages)*r.opts.PageSize)

	var seen map[string]struct{}
	if r.opts.Dedup {
		seen = make(map[string]struct{}, len(r.live))
	}

	for _, li := range r.live {
		if seen != nil {
			if _, dup := seen[li.trip.ID]; dup {
				continue
			}
			seen[li.trip.ID] = struct{}{}
		}
		if f.Match(li.trip) {
			items = append(items, Item{Trip: li.trip, New: li.fresh})
		}
	}
	for _, page := range r.pages {
		for _, t := range page {
			if seen != nil {
				if _, dup := seen[t.ID]; dup {
					continue
				}
				seen[t.ID] = struct{}{}
			}
			if f.Match(t) {
				items = append(items, Item{Trip: t})
			}
		}
	}
	return items
}

func (r *Reconciler) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	paged := 0
	for _, p := range r.pages {
		paged += len(p)
	}
	return Status{
		State:    r.state,
		Fetching: r.fetching,
		HasMore:  r.hasMore,
		Live:     len(r.live),
		Paged:    paged,
		LastErr:  r.lastErr,
	}
}

// Close tears the feed down: the push channel is closed, the mount context
// cancelled and any late result discarded. It is idempotent.
func (r *Reconciler) Close() error {
	r.mu.Lock()
	if r.state == Closed {
		r.mu.Unlock()
		return nil
	}
	mounted := r.state != Idle
	r.state = Closed
	r.fetching = false
	if r.cancel != nil {
		r.cancel()
	}
	close(r.changes)
	r.mu.Unlock()

	if !mounted {
		return nil
	}
	return r.push.Close()
}

// Wait blocks until the feed's background goroutines have returned.
func (r *Reconciler) Wait() {
	r.wg.Wait()
}
