package netx

import (
	"io"
	"strings"
)

// ReadSnippet reads at most limit bytes of r and returns them trimmed. It is
// meant for error bodies, so read errors yield whatever was read.
func ReadSnippet(r io.Reader, limit int64) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, limit))
	return strings.TrimSpace(string(b))
}

// DrainClose discards the rest of body and closes it so the connection can
// be reused.
func DrainClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
