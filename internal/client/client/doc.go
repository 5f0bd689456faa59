// Package client contains the transport layer of the Poputka client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     token verification and refresh, the paginated trip list, trip
//     creation and the caller phone lookup.
//  2. A concrete REST implementation (see HTTPClient) built on two
//     *http.Client values. The authed one injects the stored access token on
//     every request through a RoundTripper; the plain one carries no
//     credentials and is used only for token refresh, so a refresh never
//     recurses through the interceptor.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnauthorized (401/403) and ErrUnavailable (transport failure,
// timeout or 5xx). Any other non-2xx response is returned as *StatusError.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
