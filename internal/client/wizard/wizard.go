package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/common"
)

var (
	ErrIncomplete = errors.New("step is incomplete")
	ErrLastStep   = errors.New("already at the last step")
	ErrStepLocked = errors.New("step not reached yet")
	ErrInvalid    = errors.New("invalid value")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Step int

const (
	StepRole Step = iota
	StepType
	StepOrigin
	StepDestination
	StepDate
	StepTime
	StepSeats
	StepPrice
	StepComment
)

// Steps lists every step in order.
var Steps = []Step{StepRole, StepType, StepOrigin, StepDestination, StepDate, StepTime, StepSeats, StepPrice, StepComment}

func (s Step) String() string {
	switch s {
	case StepRole:
		return "Role"
	case StepType:
		return "Type"
	case StepOrigin:
		return "From"
	case StepDestination:
		return "To"
	case StepDate:
		return "Date"
	case StepTime:
		return "Time"
	case StepSeats:
		return "Seats"
	case StepPrice:
		return "Price"
	case StepComment:
		return "Comment"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

func (s Step) valid() bool {
	return s >= StepRole && s <= StepComment
}

// Draft is the trip being composed. Zero values mean "not set".
type Draft struct {
	Role           models.Role
	Type           *models.TripType
	Origin         string
	Destination    string
	DepartureDate  string
	DepartureNow   bool
	DepartureTime  string
	NumberOfPeople int
	SuggestedPrice *int
	Comment        string
}

type Wizard struct {
	draft   Draft
	current Step
	highest Step
}

func New() *Wizard {
	return &Wizard{}
}

func (w *Wizard) Current() Step { return w.current }
func (w *Wizard) Highest() Step { return w.highest }
func (w *Wizard) Draft() Draft  { return w.draft }

// IsLast reports whether the current step is the final one.
func (w *Wizard) IsLast() bool { return w.current == StepComment }

func (w *Wizard) SetRole(r models.Role) error {
	if !r.Valid() {
		return fmt.Errorf("%w: role %q", ErrInvalid, r)
	}
	w.draft.Role = r
	return nil
}

// SetType sets the optional trip type; nil clears it.
func (w *Wizard) SetType(t *models.TripType) error {
	if t != nil && !t.Valid() {
		return fmt.Errorf("%w: trip type %q", ErrInvalid, *t)
	}
	w.draft.Type = t
	return nil
}

func (w *Wizard) SetOrigin(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return fmt.Errorf("%w: empty origin", ErrInvalid)
	}
	w.draft.Origin = city
	return nil
}

func (w *Wizard) SetDestination(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return fmt.Errorf("%w: empty destination", ErrInvalid)
	}
	w.draft.Destination = city
	return nil
}

// SetDate accepts a calendar date in YYYY-MM-DD form.
func (w *Wizard) SetDate(date string) error {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date %q, want YYYY-MM-DD", ErrInvalid, date)
	}
	w.draft.DepartureDate = date
	return nil
}

// SetDateIn picks the date daysFromNow days after now.
func (w *Wizard) SetDateIn(now time.Time, daysFromNow int) {
	w.draft.DepartureDate = now.AddDate(0, 0, daysFromNow).Format(dateLayout)
}

// SetDepartureNow marks the trip as leaving as soon as possible. A scheduled
// time is kept but ignored while the flag is set.
func (w *Wizard) SetDepartureNow(now bool) {
	w.draft.DepartureNow = now
}

// SetTime sets a scheduled departure in HH:MM form and clears "now".
func (w *Wizard) SetTime(clock string) error {
	clock = strings.TrimSpace(clock)
	t, err := time.Parse(timeLayout, clock)
	if err != nil {
		return fmt.Errorf("%w: time %q, want HH:MM", ErrInvalid, clock)
	}
	w.draft.DepartureTime = t.Format(timeLayout)
	w.draft.DepartureNow = false
	return nil
}

func (w *Wizard) SetSeats(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: seats must be positive", ErrInvalid)
	}
	w.draft.NumberOfPeople = n
	return nil
}

// SetPrice sets the optional price in som; nil clears it.
func (w *Wizard) SetPrice(price *int) error {
	if price != nil && *price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalid)
	}
	w.draft.SuggestedPrice = price
	return nil
}

func (w *Wizard) SetComment(comment string) {
	w.draft.Comment = strings.TrimSpace(comment)
}

// CanProceed applies the required-field check of the current step.
func (w *Wizard) CanProceed() bool {
	return w.complete(w.current)
}

func (w *Wizard) complete(s Step) bool {
	d := w.draft
	switch s {
	case StepRole:
		return d.Role.Valid()
	case StepOrigin:
		return d.Origin != ""
	case StepDestination:
		return d.Destination != ""
	case StepDate:
		return d.DepartureDate != ""
	case StepTime:
		return d.DepartureNow || d.DepartureTime != ""
	case StepSeats:
		return d.NumberOfPeople > 0
	case StepType, StepPrice, StepComment:
		return true
	}
	return false
}

func (w *Wizard) Next() error {
	if !w.CanProceed() {
		return fmt.Errorf("%w: %s", ErrIncomplete, w.current)
	}
	if w.IsLast() {
		return ErrLastStep
	}
	w.current++
	if w.current > w.highest {
		w.highest = w.current
	}
	return nil
}

// Back moves one step back. It reports false on the first step.
func (w *Wizard) Back() bool {
	if w.current == StepRole {
		return false
	}
	w.current--
	return true
}

// GoTo jumps to any step up to the highest one reached.
func (w *Wizard) GoTo(s Step) error {
	if !s.valid() || s > w.highest {
		return fmt.Errorf("%w: %s", ErrStepLocked, s)
	}
	w.current = s
	return nil
}

// Summary is the breadcrumb text for step s. ok is false when the step has
// nothing to show yet.
func (w *Wizard) Summary(s Step) (summary string, ok bool) {
	d := w.draft
	switch s {
	case StepRole:
		switch d.Role {
		case models.RoleDriver:
			return "Driver", true
		case models.RolePassenger:
			return "Passenger", true
		}
	case StepType:
		if d.Type == nil {
			return "Not specified", true
		}
		return TypeLabel(*d.Type), true
	case StepOrigin:
		return d.Origin, d.Origin != ""
	case StepDestination:
		return d.Destination, d.Destination != ""
	case StepDate:
		return d.DepartureDate, d.DepartureDate != ""
	case StepTime:
		if d.DepartureNow {
			return "Now", true
		}
		return d.DepartureTime, d.DepartureTime != ""
	case StepSeats:
		if d.NumberOfPeople > 0 {
			return fmt.Sprintf("%d seats", d.NumberOfPeople), true
		}
	case StepPrice:
		if d.SuggestedPrice != nil && *d.SuggestedPrice > 0 {
			return fmt.Sprintf("%d som", *d.SuggestedPrice), true
		}
		return "Not specified", true
	case StepComment:
		if d.Comment != "" {
			return "Added", true
		}
		return "Not added", true
	}
	return "", false
}

func TypeLabel(t models.TripType) string {
	switch t {
	case models.TripTypeSalon:
		return "Salon"
	case models.TripTypeHitchRide:
		return "Hitch ride"
	case models.TripTypeDelivery:
		return "Delivery"
	}
	return string(t)
}

// Payload builds the create request. Role, origin, destination and date are
// required; absent optional fields are sent as null. A draft with neither a
// time nor "now" departs now.
func (w *Wizard) Payload() (models.TripCreate, error) {
	d := w.draft

	var missing []string
	if !d.Role.Valid() {
		missing = append(missing, "role")
	}
	if d.Origin == "" {
		missing = append(missing, "origin")
	}
	if d.Destination == "" {
		missing = append(missing, "destination")
	}
	if d.DepartureDate == "" {
		missing = append(missing, "departure_date")
	}
	if len(missing) > 0 {
		return models.TripCreate{}, fmt.Errorf("%w: %s", common.ErrMissingField, strings.Join(missing, ", "))
	}

	var departure models.Departure = models.DepartNow{}
	if !d.DepartureNow && d.DepartureTime != "" {
		departure = models.DepartAt{Clock: d.DepartureTime}
	}

	seats := d.NumberOfPeople
	if seats <= 0 {
		seats = 1
	}

	var price *int
	if d.SuggestedPrice != nil && *d.SuggestedPrice > 0 {
		p := *d.SuggestedPrice
		price = &p
	}

	var comment *string
	if d.Comment != "" {
		c := d.Comment
		comment = &c
	}

	return models.TripCreate{
		Role:           d.Role,
		Type:           d.Type,
		Origin:         d.Origin,
		Destination:    d.Destination,
		DepartureDate:  d.DepartureDate,
		Departure:      departure,
		NumberOfPeople: seats,
		SuggestedPrice: price,
		Comment:        comment,
	}, nil
}
