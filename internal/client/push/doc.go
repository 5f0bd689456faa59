// Package push is the client side of the live trip channel.
//
// A Channel dials the backend's WebSocket endpoint, decodes every inbound
// frame as one trip and delivers the trips in arrival order on Messages.
// Malformed frames are logged and dropped without tearing the connection
// down. By default a dropped connection is not re-established; Options can
// enable a bounded number of reconnects with exponential backoff.
package push
