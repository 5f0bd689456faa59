package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Status(ctx context.Context) error
	Profile(ctx context.Context) error
	Feed(ctx context.Context) error
	More(ctx context.Context) error
	SetFilter(ctx context.Context, arg string) error
	Search(ctx context.Context, query string) error
	Call(ctx context.Context, arg string) error
	Create(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the Poputka CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help               show available commands
//	  - login              store the tokens issued after phone verification
//	  - status             show stored tokens
//	  - exit | quit        leave the program
//
//	Logged in:
//	  - help               show available commands
//	  - (f)eed             show the live trip feed
//	  - more               load the next page
//	  - filter <tab>       all, driver or passenger
//	  - search [city]      narrow the feed by city; no argument clears it
//	  - call <n>           phone number of the n-th listed trip
//	  - create             post a new trip
//	  - profile            show who is logged in
//	  - status             show stored tokens
//	  - logout             log out
//	  - exit | quit        leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("poputka> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := strings.Join(parts[1:], " ")

		if ctx.Err() != nil {
			return
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (f)eed, more, filter, search, call, create, profile, status, logout, exit")
			} else {
				printlnFn("Available commands: login, status, exit")
			}
			continue

		case "login":
			_ = a.Login(ctx)
			continue

		case "status":
			_ = a.Status(ctx)
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			switch cmd {
			case "f", "feed", "more", "filter", "search", "call", "create", "profile", "logout":
				printlnFn("Please log in first")
			default:
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "f", "feed":
			_ = a.Feed(ctx)

		case "more":
			_ = a.More(ctx)

		case "filter":
			_ = a.SetFilter(ctx, arg)

		case "search":
			_ = a.Search(ctx, arg)

		case "call":
			_ = a.Call(ctx, arg)

		case "create":
			_ = a.Create(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "logout":
			_ = a.Logout(ctx)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
