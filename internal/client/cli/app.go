package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/poputka/internal/client/client"
	"github.com/dmitrijs2005/poputka/internal/client/config"
	"github.com/dmitrijs2005/poputka/internal/client/feed"
	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/client/push"
	"github.com/dmitrijs2005/poputka/internal/client/services"
	"github.com/dmitrijs2005/poputka/internal/client/store"
	"github.com/dmitrijs2005/poputka/internal/filex"
	"github.com/dmitrijs2005/poputka/internal/logging"
)

type App struct {
	config  *config.Config
	session services.SessionService
	trips   services.TripService
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	db      *sql.DB

	// pages and newPush feed the reconciler created by the feed command.
	pages   feed.PageSource
	newPush func() feed.PushStream

	mu       sync.Mutex
	loggedIn bool
	feed     *feed.Reconciler
	filter   feed.Filter
	shown    []models.Trip
	// changed is closed and replaced on every feed change.
	changed chan struct{}
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	stateDir, err := filex.EnsureDir(c.StateDir())
	if err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}

	db, err := store.InitDatabase(ctx, filepath.Join(stateDir, filepath.Base(c.StorePath)))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	sealer, err := store.LoadDeviceSealer(stateDir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	tokens := store.NewSQLiteTokenStore(db, sealer)

	pushURL, err := push.URLFromBase(c.APIBaseURL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("push url: %w", err)
	}

	apiClient := client.NewHTTPClient(c.APIBaseURL, tokens, c.RequestTimeout, log)

	return &App{
		config:  c,
		session: services.NewSessionManager(apiClient, tokens, log),
		trips:   services.NewTripService(apiClient, log),
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		db:      db,
		pages:   apiClient,
		newPush: func() feed.PushStream {
			return push.NewChannel(pushURL, push.Options{
				ReconnectAttempts: c.PushReconnectAttempts,
				Logger:            log,
			})
		},
	}, nil
}

// Run checks the stored session, then blocks in the REPL until the user
// exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close tears down the feed and closes the database.
func (a *App) Close() {
	a.closeFeed()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedIn
}

func (a *App) setLoggedIn(v bool) {
	a.mu.Lock()
	a.loggedIn = v
	a.mu.Unlock()
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}
