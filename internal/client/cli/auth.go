package cli

import (
	"context"
	"os"
	"time"

	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/client/services"
	"github.com/dmitrijs2005/poputka/internal/common"
	"golang.org/x/term"
)

// getSimpleText, getSecret and isTerminal are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getSecret     = GetSecret
	isTerminal    = term.IsTerminal
)

// readSecret hides the input on a terminal and falls back to a plain line
// read when stdin is piped.
func (a *App) readSecret(prompt string) (string, error) {
	if isTerminal(int(os.Stdin.Fd())) {
		return getSecret(prompt, a.out)
	}
	return getSimpleText(a.reader, prompt, a.out)
}

// Bootstrap decides the initial screen: a valid (or successfully rotated)
// session goes straight to the feed, anything else asks for login.
func (a *App) Bootstrap(ctx context.Context) bool {
	ok := a.session.CheckSession(ctx)
	a.setLoggedIn(ok)
	return ok
}

// Login asks for the phone number and the token pair issued after phone
// verification and stores them.
func (a *App) Login(ctx context.Context) error {
	phone, err := getSimpleText(a.reader, "Enter your phone number", a.out)
	if err != nil {
		return err
	}
	if len(phone) < common.MinPhoneNumberLength {
		a.println("Phone number must be at least 10 characters")
		return common.ErrInvalidPhone
	}

	access, err := a.readSecret("Access token")
	if err != nil {
		return err
	}
	refresh, err := a.readSecret("Refresh token")
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, phone, models.TokenPair{AccessToken: access, RefreshToken: refresh}); err != nil {
		a.println("Login unsuccessful:", err)
		return err
	}

	if !a.session.CheckSession(ctx) {
		a.println("Login unsuccessful: the server rejected these tokens")
		a.setLoggedIn(false)
		return services.ErrSessionRejected
	}

	a.setLoggedIn(true)
	a.println("Login successful")
	return nil
}

// Logout closes the feed, clears the stored tokens and returns to the
// login screen.
func (a *App) Logout(ctx context.Context) error {
	a.closeFeed()
	if err := a.session.Logout(ctx); err != nil {
		a.println("Logout failed:", err)
		return err
	}
	a.setLoggedIn(false)
	a.println("Logged out")
	return nil
}

// Profile shows the name and phone number behind the current session.
func (a *App) Profile(ctx context.Context) error {
	user, err := a.session.Profile(ctx)
	if err != nil {
		if services.IsUnauthorized(err) {
			a.setLoggedIn(false)
			a.println("Session expired, please log in again")
		} else {
			a.println("Could not load profile:", err)
		}
		return err
	}

	a.printf("[%s] %s\n", user.Initials(), user.Name)
	a.printf("Phone: %s\n", user.PhoneNumber)
	return nil
}

// Status prints which tokens are stored and when they expire.
func (a *App) Status(ctx context.Context) error {
	info, err := a.session.Describe(ctx)
	if err != nil {
		a.println("Could not read session:", err)
		return err
	}

	a.printf("Access token:  %s\n", describeToken(info.HasAccess, info.AccessExpiry))
	a.printf("Refresh token: %s\n", describeToken(info.HasRefresh, info.RefreshExpiry))
	if a.isLoggedIn() {
		a.println("Session: active")
	} else {
		a.println("Session: none")
	}
	return nil
}

func describeToken(present bool, exp *time.Time) string {
	switch {
	case !present:
		return "absent"
	case exp == nil:
		return "present"
	case exp.Before(time.Now()):
		return "expired at " + exp.Local().Format(time.DateTime)
	default:
		return "valid until " + exp.Local().Format(time.DateTime)
	}
}
