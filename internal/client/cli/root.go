package cli

import (
	"bufio"
	"context"
)

func (a *App) getStatus() string {
	if a.isLoggedIn() {
		return "(online)"
	}
	return "(logged out)"
}

// Root shows the welcome line, restores the stored session and hands over
// to the REPL. Without a session the user is asked to log in first.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to Poputka CLI (type 'help' for commands)")

	if a.Bootstrap(ctx) {
		_ = a.Feed(ctx)
	} else {
		a.println("No active session")
		_ = a.Login(ctx)
		if a.isLoggedIn() {
			_ = a.Feed(ctx)
		}
	}

	scanner := bufio.NewScanner(&lineReader{r: a.reader})
	runREPL(ctx, a, a.getStatus, scanner)
}

var _ execIface = (*App)(nil)
