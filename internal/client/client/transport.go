package client

import (
	"net/http"

	"github.com/dmitrijs2005/poputka/internal/common"
	"github.com/dmitrijs2005/poputka/internal/logging"
	"github.com/google/uuid"
)

// requestIDTransport stamps every request with a fresh X-Request-ID.
type requestIDTransport struct {
	next http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	return t.next.RoundTrip(req)
}

// bearerTransport reads the access token from the store for each request and
// sets the Authorization header. An empty token is still sent as "Bearer ".
type bearerTransport struct {
	next   http.RoundTripper
	tokens TokenSource
	log    logging.Logger
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	token, err := t.tokens.AccessToken(ctx)
	if err != nil {
		t.log.Warn(ctx, "read access token", "err", err)
		token = ""
	}

	req = req.Clone(ctx)
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	return t.next.RoundTrip(req)
}
