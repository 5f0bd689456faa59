package logging

import "strings"

const redacted = "[REDACTED]"

// sensitiveKeys never reach a log sink with their value.
var sensitiveKeys = map[string]struct{}{
	"access_token":  {},
	"refresh_token": {},
	"authorization": {},
	"token":         {},
}

// redact returns args with the values of sensitive keys masked. args is
// copied only when something is masked.
func redact(args []any) []any {
	out, copied := args, false
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		if _, hit := sensitiveKeys[strings.ToLower(key)]; !hit {
			continue
		}
		if !copied {
			out, copied = append([]any(nil), args...), true
		}
		out[i+1] = redacted
	}
	return out
}
