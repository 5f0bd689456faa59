package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/poputka/internal/client/feed"
	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/client/services"
	"github.com/dmitrijs2005/poputka/internal/client/wizard"
)

// ensureFeed mounts the feed on first use.
func (a *App) ensureFeed(ctx context.Context) (*feed.Reconciler, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.feed != nil {
		return a.feed, nil
	}

	r := feed.NewReconciler(a.pages, a.newPush(), feed.Options{
		PageSize:        a.config.PageSize,
		ScrollThreshold: a.config.ScrollThreshold,
		Dedup:           a.config.DedupFeed,
		Logger:          a.log,
	})
	if err := r.Mount(ctx); err != nil {
		return nil, err
	}
	a.feed = r
	a.filter = feed.Filter{Tab: feed.TabAll}
	go a.watchFeed(r)
	return r, nil
}

// closeFeed unmounts the feed; filter and search reset with it.
func (a *App) closeFeed() {
	a.mu.Lock()
	r := a.feed
	a.feed = nil
	a.filter = feed.Filter{}
	a.shown = nil
	a.mu.Unlock()

	if r != nil {
		_ = r.Close()
	}
}

// watchFeed is the only reader of r.Changes. It announces pushed trips
// between commands and wakes commands waiting in waitSettled.
func (a *App) watchFeed(r *feed.Reconciler) {
	defer a.broadcastChange()

	seen := 0
	for range r.Changes() {
		st := r.Status()
		if st.Live > seen {
			a.printf("\n%d new trip(s) arrived, type 'feed' to see them\n", st.Live-seen)
			seen = st.Live
		}
		a.broadcastChange()
	}
}

func (a *App) changeSignal() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.changed == nil {
		a.changed = make(chan struct{})
	}
	return a.changed
}

func (a *App) broadcastChange() {
	a.mu.Lock()
	if a.changed != nil {
		close(a.changed)
	}
	a.changed = make(chan struct{})
	a.mu.Unlock()
}

// waitSettled blocks until no page fetch is in flight or the request
// timeout elapses.
func (a *App) waitSettled(r *feed.Reconciler) {
	deadline := time.NewTimer(a.config.RequestTimeout)
	defer deadline.Stop()

	for {
		// taken before the check so a change in between is not missed
		changed := a.changeSignal()
		if !r.Status().Fetching {
			return
		}
		select {
		case <-changed:
		case <-deadline.C:
			return
		}
	}
}

// Feed renders the merged feed under the current filter.
func (a *App) Feed(ctx context.Context) error {
	r, err := a.ensureFeed(ctx)
	if err != nil {
		return err
	}
	a.waitSettled(r)
	a.render(r)
	return nil
}

// More requests the next page, as when the list is scrolled to the bottom.
func (a *App) More(ctx context.Context) error {
	r, err := a.ensureFeed(ctx)
	if err != nil {
		return err
	}

	if !r.OnScroll(0) {
		st := r.Status()
		switch {
		case st.Fetching:
			a.println("Still loading...")
		case !st.HasMore:
			a.println("No more trips")
		}
		return nil
	}

	a.waitSettled(r)
	a.render(r)
	return nil
}

// SetFilter switches the role tab: all, driver or passenger.
func (a *App) SetFilter(ctx context.Context, arg string) error {
	tab, err := feed.ParseTab(arg)
	if err != nil {
		a.println("Usage: filter all|driver|passenger")
		return err
	}
	r, err := a.ensureFeed(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.filter.Tab = tab
	a.mu.Unlock()

	a.render(r)
	return nil
}

// Search narrows the feed to trips whose origin or destination contains
// query. An empty query clears the search.
func (a *App) Search(ctx context.Context, query string) error {
	r, err := a.ensureFeed(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.filter.City = strings.TrimSpace(query)
	a.mu.Unlock()

	a.render(r)
	return nil
}

func (a *App) render(r *feed.Reconciler) {
	a.mu.Lock()
	f := a.filter
	a.mu.Unlock()

	items := r.Render(f)

	shown := make([]models.Trip, 0, len(items))
	for _, it := range items {
		shown = append(shown, it.Trip)
	}
	a.mu.Lock()
	a.shown = shown
	a.mu.Unlock()

	st := r.Status()
	header := fmt.Sprintf("Trips [%s]", f.Tab)
	if f.City != "" {
		header += fmt.Sprintf(" matching %q", f.City)
	}
	a.println(header)

	if len(items) == 0 {
		if st.LastErr != nil {
			a.println("Could not load trips:", st.LastErr)
			return
		}
		a.println(f.EmptyMessage())
		return
	}

	for i, it := range items {
		a.println(formatTrip(i+1, it))
	}
	if st.LastErr != nil {
		a.println("Could not load more trips:", st.LastErr)
	} else if st.HasMore {
		a.println("Type 'more' to load more")
	}
}

func formatTrip(n int, it feed.Item) string {
	t := it.Trip

	var b strings.Builder
	fmt.Fprintf(&b, "%2d. ", n)
	if it.New {
		b.WriteString("* NEW * ")
	}

	role := "Driver"
	if t.Role == models.RolePassenger {
		role = "Passenger"
	}
	fmt.Fprintf(&b, "%s  %s -> %s  %s %s", role, t.Origin, t.Destination, t.DepartureDate, departureLabel(t.Departure))

	fmt.Fprintf(&b, "  %d seat(s)", t.NumberOfPeople)
	if t.Type != nil {
		fmt.Fprintf(&b, "  %s", wizard.TypeLabel(*t.Type))
	}
	if t.SuggestedPrice != nil {
		fmt.Fprintf(&b, "  %d som", *t.SuggestedPrice)
	}
	if t.Comment != nil && *t.Comment != "" {
		fmt.Fprintf(&b, "\n      %q", *t.Comment)
	}
	return b.String()
}

func departureLabel(d models.Departure) string {
	switch v := d.(type) {
	case models.DepartAt:
		return v.Clock
	default:
		return "now"
	}
}

// Call looks up the phone number of the poster of the n-th trip of the last
// rendered list.
func (a *App) Call(ctx context.Context, arg string) error {
	n, err := strconv.Atoi(strings.TrimSpace(arg))

	a.mu.Lock()
	shown := a.shown
	a.mu.Unlock()

	if err != nil || n < 1 || n > len(shown) {
		a.println("Usage: call <number from the feed>")
		return errors.New("no such trip")
	}

	phone, err := a.trips.CallerPhone(ctx, shown[n-1].UserID)
	if err != nil {
		if services.IsUnauthorized(err) {
			a.println("Session expired, please log in again")
			a.setLoggedIn(false)
			return err
		}
		a.println("Could not get the phone number")
		return err
	}

	a.printf("Call %s (tel:%s)\n", phone, phone)
	return nil
}
