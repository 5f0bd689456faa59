package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) record(s string) error {
	f.calls = append(f.calls, s)
	return nil
}

func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Status(context.Context) error  { return f.record("status") }
func (f *fakeExec) Profile(context.Context) error { return f.record("profile") }
func (f *fakeExec) Feed(context.Context) error    { return f.record("feed") }
func (f *fakeExec) More(context.Context) error    { return f.record("more") }
func (f *fakeExec) SetFilter(_ context.Context, arg string) error {
	return f.record("filter " + arg)
}
func (f *fakeExec) Search(_ context.Context, q string) error { return f.record("search " + q) }
func (f *fakeExec) Call(_ context.Context, arg string) error { return f.record("call " + arg) }
func (f *fakeExec) Create(context.Context) error             { return f.record("create") }
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	old := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = old })
	return &lines
}

func run(t *testing.T, f *fakeExec, input string) []string {
	t.Helper()
	out := captureOutput(t)
	runREPL(context.Background(), f, func() string { return "(test)" }, bufio.NewScanner(strings.NewReader(input)))
	return *out
}

func TestREPL_LoggedOutGatesCommands(t *testing.T) {
	f := &fakeExec{}
	out := run(t, f, "feed\ncreate\nhelp\nstatus\nexit\nfeed\n")

	assert.Equal(t, []string{"status"}, f.calls)
	assert.Contains(t, out, "Please log in first")
	assert.Contains(t, out, "Available commands: login, status, exit")
	assert.Equal(t, "Bye!", out[len(out)-1])
}

func TestREPL_DispatchesWithArguments(t *testing.T) {
	f := &fakeExec{loggedIn: true}
	run(t, f, "f\nmore\nfilter driver\nsearch  kara balta \ncall 2\ncreate\nprofile\nlogout\nfeed\n")

	assert.Equal(t, []string{
		"feed",
		"more",
		"filter driver",
		"search kara balta",
		"call 2",
		"create",
		"profile",
		"logout",
	}, f.calls)
}

func TestREPL_LoginUnlocksCommands(t *testing.T) {
	f := &fakeExec{}
	run(t, f, "login\n\nfeed\nquit\n")
	assert.Equal(t, []string{"login", "feed"}, f.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	out := run(t, &fakeExec{loggedIn: true}, "sync\n")
	assert.Contains(t, out, "Unknown command: sync")
}

func TestREPL_StopsWhenContextDone(t *testing.T) {
	f := &fakeExec{loggedIn: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	captureOutput(t)
	runREPL(ctx, f, func() string { return "" }, bufio.NewScanner(strings.NewReader("feed\n")))
	assert.Empty(t, f.calls)
}
