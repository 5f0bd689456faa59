package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/logging"
	"github.com/dmitrijs2005/poputka/internal/netx"
)

const (
	pathVerify    = "/api/auth/token/verify"
	pathRefresh   = "/api/auth/token/refresh"
	pathTrips     = "/api/trips/"
	pathUserPhone = "/api/auth/users/%s/phone"

	maxErrorBody = 512
)

// HTTPClient talks to the Poputka REST API.
type HTTPClient struct {
	baseURL string
	authed  *http.Client
	plain   *http.Client
	log     logging.Logger
}

// NewHTTPClient builds a client for baseURL. tokens supplies the access token
// for every request on the authed path; timeout bounds each request.
func NewHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration, log logging.Logger) *HTTPClient {
	return newHTTPClient(baseURL, tokens, timeout, log, http.DefaultTransport)
}

func newHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration, log logging.Logger, base http.RoundTripper) *HTTPClient {
	if log == nil {
		log = logging.Nop()
	}
	stamped := &requestIDTransport{next: base}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		authed: &http.Client{
			Timeout:   timeout,
			Transport: &bearerTransport{next: stamped, tokens: tokens, log: log},
		},
		plain: &http.Client{
			Timeout:   timeout,
			Transport: stamped,
		},
		log: log,
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) VerifyToken(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, c.authed, http.MethodGet, pathVerify, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RefreshToken exchanges refreshToken for a new pair over the plain path.
func (c *HTTPClient) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{RefreshToken: refreshToken}

	var pair models.TokenPair
	if err := c.do(ctx, c.plain, http.MethodPost, pathRefresh, body, &pair); err != nil {
		return nil, err
	}
	if !pair.Complete() {
		return nil, fmt.Errorf("refresh: incomplete token pair in response")
	}
	return &pair, nil
}

// ListTrips fetches one page. An empty cursor requests the first page.
// Items that do not decode are logged and skipped so one bad record does not
// stall pagination.
func (c *HTTPClient) ListTrips(ctx context.Context, limit int, cursor string) ([]models.Trip, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		q.Set("cursor_date", cursor)
	}

	var raw []json.RawMessage
	if err := c.do(ctx, c.authed, http.MethodGet, pathTrips+"?"+q.Encode(), nil, &raw); err != nil {
		return nil, err
	}

	trips := make([]models.Trip, 0, len(raw))
	for i, item := range raw {
		var t models.Trip
		if err := json.Unmarshal(item, &t); err != nil {
			c.log.Warn(ctx, "skipping malformed trip", "index", i, "cursor", cursor, "err", err)
			continue
		}
		trips = append(trips, t)
	}
	return trips, nil
}

func (c *HTTPClient) CreateTrip(ctx context.Context, trip models.TripCreate) error {
	return c.do(ctx, c.authed, http.MethodPost, pathTrips, trip, nil)
}

func (c *HTTPClient) UserPhone(ctx context.Context, userID string) (string, error) {
	var resp struct {
		PhoneNumber string `json:"phone_number"`
	}
	path := fmt.Sprintf(pathUserPhone, url.PathEscape(userID))
	if err := c.do(ctx, c.authed, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.PhoneNumber, nil
}

func (c *HTTPClient) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "err", err)
		return mapTransportError(ctx, err)
	}
	defer netx.DrainClose(resp.Body)

	if err := mapStatus(resp); err != nil {
		c.log.Debug(ctx, "request rejected", "method", method, "path", path, "status", resp.StatusCode)
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapTransportError keeps caller cancellation distinct from an unreachable
// backend; client timeouts count as unavailable.
func mapTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return &StatusError{Code: resp.StatusCode, Body: netx.ReadSnippet(resp.Body, maxErrorBody)}
	}
}
