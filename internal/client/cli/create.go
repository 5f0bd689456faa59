package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/client/wizard"
)

// errCancelled ends the wizard without submitting.
var errCancelled = errors.New("trip creation cancelled")

// getMultiline is swapped in tests.
var getMultiline = GetMultiline

// nowFn is the clock used by the date shortcuts.
var nowFn = time.Now

// Create walks through the nine creation steps and submits the trip.
//
// At every prompt "<" goes back one step and "cancel" leaves the wizard.
// Optional steps are skipped with an empty line.
func (a *App) Create(ctx context.Context) error {
	w := wizard.New()

	for {
		a.printBreadcrumb(w)

		input, err := a.promptStep(w.Current())
		if err != nil {
			return err
		}

		switch strings.ToLower(input) {
		case "cancel":
			a.println("Cancelled")
			return errCancelled
		case "<":
			if !w.Back() {
				a.println("Already at the first step")
			}
			continue
		}

		if err := applyStep(w, input); err != nil {
			a.println(err)
			continue
		}

		if w.IsLast() {
			return a.submit(ctx, w)
		}
		if err := w.Next(); err != nil {
			a.println("Please complete this step")
		}
	}
}

func (a *App) submit(ctx context.Context, w *wizard.Wizard) error {
	payload, err := w.Payload()
	if err != nil {
		a.println("Please fill in all required fields:", err)
		return err
	}

	if err := a.trips.Create(ctx, payload); err != nil {
		a.println("Could not create the trip, please try again")
		return err
	}
	a.println("Trip created!")
	return nil
}

func (a *App) printBreadcrumb(w *wizard.Wizard) {
	var parts []string
	for _, s := range wizard.Steps {
		if s > w.Highest() {
			break
		}
		label := s.String()
		if sum, ok := w.Summary(s); ok && s != w.Current() {
			label += ": " + sum
		}
		if s == w.Current() {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	a.printf("\nStep %d of %d  %s\n", int(w.Current())+1, len(wizard.Steps), strings.Join(parts, " > "))
}

func (a *App) promptStep(s wizard.Step) (string, error) {
	if s == wizard.StepComment {
		return getMultiline(a.reader, "Comment (optional)", a.out)
	}
	return getSimpleText(a.reader, stepPrompt(s), a.out)
}

func stepPrompt(s wizard.Step) string {
	switch s {
	case wizard.StepRole:
		return "Who are you? 1) Driver 2) Passenger"
	case wizard.StepType:
		return "Trip type: 1) Salon 2) Hitch ride 3) Delivery (Enter to skip)"
	case wizard.StepOrigin:
		return "From where? " + cityChoices()
	case wizard.StepDestination:
		return "Where to? " + cityChoices()
	case wizard.StepDate:
		return "Date: today, tomorrow, +N days or YYYY-MM-DD"
	case wizard.StepTime:
		return "Time: now or HH:MM (" + strings.Join(wizard.TimePresets, ", ") + ")"
	case wizard.StepSeats:
		return "Number of seats"
	case wizard.StepPrice:
		return "Price in som (Enter to skip)"
	}
	return s.String()
}

func cityChoices() string {
	var b strings.Builder
	for i, c := range wizard.KnownCities {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d) %s", i+1, c)
	}
	b.WriteString(" or type a city")
	return b.String()
}

// applyStep parses input for the current step and stores it in the draft.
func applyStep(w *wizard.Wizard, input string) error {
	input = strings.TrimSpace(input)

	switch w.Current() {
	case wizard.StepRole:
		switch strings.ToLower(input) {
		case "1", "driver":
			return w.SetRole(models.RoleDriver)
		case "2", "passenger":
			return w.SetRole(models.RolePassenger)
		}
		return fmt.Errorf("%w: choose 1 or 2", wizard.ErrInvalid)

	case wizard.StepType:
		var t models.TripType
		switch strings.ToLower(input) {
		case "":
			return w.SetType(nil)
		case "1", "salon":
			t = models.TripTypeSalon
		case "2", "hitch", "hitch_ride":
			t = models.TripTypeHitchRide
		case "3", "delivery":
			t = models.TripTypeDelivery
		default:
			return fmt.Errorf("%w: choose 1, 2 or 3", wizard.ErrInvalid)
		}
		return w.SetType(&t)

	case wizard.StepOrigin:
		return w.SetOrigin(wizard.ResolveCity(input))

	case wizard.StepDestination:
		return w.SetDestination(wizard.ResolveCity(input))

	case wizard.StepDate:
		switch strings.ToLower(input) {
		case "today":
			w.SetDateIn(nowFn(), 0)
			return nil
		case "tomorrow":
			w.SetDateIn(nowFn(), 1)
			return nil
		}
		if days, ok := strings.CutPrefix(input, "+"); ok {
			n, err := strconv.Atoi(days)
			if err != nil || n < 0 {
				return fmt.Errorf("%w: %q", wizard.ErrInvalid, input)
			}
			w.SetDateIn(nowFn(), n)
			return nil
		}
		return w.SetDate(input)

	case wizard.StepTime:
		if strings.EqualFold(input, "now") {
			w.SetDepartureNow(true)
			return nil
		}
		return w.SetTime(input)

	case wizard.StepSeats:
		n, err := strconv.Atoi(input)
		if err != nil {
			return fmt.Errorf("%w: seats must be a number", wizard.ErrInvalid)
		}
		return w.SetSeats(n)

	case wizard.StepPrice:
		if input == "" {
			return w.SetPrice(nil)
		}
		n, err := strconv.Atoi(input)
		if err != nil {
			return fmt.Errorf("%w: price must be a number", wizard.ErrInvalid)
		}
		return w.SetPrice(&n)

	case wizard.StepComment:
		w.SetComment(input)
		return nil
	}
	return nil
}
