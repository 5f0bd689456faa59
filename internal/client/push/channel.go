package push

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/logging"
	"github.com/dmitrijs2005/poputka/internal/netx"
	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"
)

type State int

const (
	Idle State = iota
	Connecting
	Open
	Closed
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	case Errored:
		return "errored"
	}
	return "unknown"
}

const (
	defaultBackoff   = 500 * time.Millisecond
	closeGrace       = time.Second
	messageBuffer    = 16
	handshakeSnippet = 256
)

type Options struct {
	// ReconnectAttempts is how many times a failed dial or a dropped
	// connection is retried. Zero disables reconnection.
	ReconnectAttempts uint64
	// ReconnectBackoff is the first retry delay; it doubles on every attempt.
	ReconnectBackoff time.Duration
	Dialer           *websocket.Dialer
	Logger           logging.Logger
}

// Channel is a single-use push connection. Start it once; Close it once
// or more.
type Channel struct {
	url  string
	opts Options
	log  logging.Logger

	mu     sync.Mutex
	state  State
	conn   *websocket.Conn
	cancel context.CancelFunc

	msgs       chan models.Trip
	opened     chan struct{}
	openedOnce sync.Once
	done       chan struct{}
}

func NewChannel(url string, opts Options) *Channel {
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	if opts.ReconnectBackoff <= 0 {
		opts.ReconnectBackoff = defaultBackoff
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &Channel{
		url:    url,
		opts:   opts,
		log:    log.With("component", "push", "url", url),
		msgs:   make(chan models.Trip, messageBuffer),
		opened: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages delivers decoded trips in arrival order. It is closed once the
// channel is closed or has failed for good.
func (c *Channel) Messages() <-chan models.Trip { return c.msgs }

// Opened is closed the first time the connection is established.
func (c *Channel) Opened() <-chan struct{} { return c.opened }

// Done is closed after the connection goroutine has exited.
func (c *Channel) Done() <-chan struct{} { return c.done }

// Start begins connecting in the background. Only the first call on an
// Idle channel has an effect.
func (c *Channel) Start(ctx context.Context) {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = Connecting
	c.mu.Unlock()

	go c.run(ctx)
}

// Close tears the connection down. It acts only while connecting or open;
// any other state makes it a no-op.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.state != Connecting && c.state != Open {
		c.mu.Unlock()
		return nil
	}
	c.state = Closed
	conn, cancel := c.conn, c.cancel
	c.conn = nil
	c.mu.Unlock()

	cancel()
	if conn == nil {
		return nil
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
	return conn.Close()
}

func (c *Channel) run(ctx context.Context) {
	defer close(c.done)
	defer close(c.msgs)

	backoff := retry.WithMaxRetries(c.opts.ReconnectAttempts, retry.NewExponential(c.opts.ReconnectBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, resp, err := c.opts.Dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if resp != nil {
				c.log.Warn(ctx, "push handshake rejected", "status", resp.StatusCode, "body", netx.ReadSnippet(resp.Body, handshakeSnippet))
				netx.DrainClose(resp.Body)
			}
			c.log.Warn(ctx, "push dial failed", "err", err)
			return retry.RetryableError(err)
		}

		if !c.setOpen(conn) {
			_ = conn.Close()
			return nil
		}
		c.log.Info(ctx, "push channel open")

		stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
		err = c.readLoop(ctx, conn)
		stop()
		if ctx.Err() != nil {
			return nil
		}
		c.log.Warn(ctx, "push channel dropped", "err", err)
		if !c.setConnecting(conn) {
			return nil
		}
		_ = conn.Close()
		return retry.RetryableError(err)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = nil
	switch {
	case c.state == Closed:
	case err == nil || ctx.Err() != nil:
		c.state = Closed
	default:
		c.log.Error(ctx, "push channel failed", "err", err)
		c.state = Errored
	}
}

func (c *Channel) setOpen(conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Connecting {
		return false
	}
	c.state = Open
	c.conn = conn
	c.openedOnce.Do(func() { close(c.opened) })
	return true
}

func (c *Channel) setConnecting(conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Open || c.conn != conn {
		return false
	}
	c.state = Connecting
	c.conn = nil
	return true
}

func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var trip models.Trip
		if err := json.Unmarshal(data, &trip); err != nil {
			c.log.Warn(ctx, "dropping malformed push message", "err", err, "size", len(data))
			continue
		}

		select {
		case c.msgs <- trip:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
