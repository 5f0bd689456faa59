package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role is the side of the ride a posting represents.
type Role string

const (
	RoleDriver    Role = "driver"
	RolePassenger Role = "passenger"
)

func (r Role) Valid() bool {
	return r == RoleDriver || r == RolePassenger
}

// TripType is an optional sub-kind of a posting.
type TripType string

const (
	TripTypeSalon     TripType = "salon"
	TripTypeHitchRide TripType = "hitch_ride"
	TripTypeDelivery  TripType = "delivery"
)

func (t TripType) Valid() bool {
	switch t {
	case TripTypeSalon, TripTypeHitchRide, TripTypeDelivery:
		return true
	}
	return false
}

// Departure is either DepartNow or DepartAt. The unexported method closes
// the set so a type switch over the two cases is exhaustive.
type Departure interface {
	isDeparture()
	String() string
}

// DepartNow marks a departure without a scheduled time.
type DepartNow struct{}

func (DepartNow) isDeparture()   {}
func (DepartNow) String() string { return "now" }

// DepartAt is a scheduled departure at a wall-clock time, e.g. "08:00".
type DepartAt struct {
	Clock string
}

func (DepartAt) isDeparture()     {}
func (d DepartAt) String() string { return d.Clock }

// departureFromWire maps the backend's (departure_now, departure_time) pair.
func departureFromWire(now bool, clock *string) Departure {
	if now || clock == nil || *clock == "" {
		return DepartNow{}
	}
	return DepartAt{Clock: *clock}
}

func departureToWire(d Departure) (bool, *string) {
	switch v := d.(type) {
	case DepartAt:
		clock := v.Clock
		return false, &clock
	default:
		return true, nil
	}
}

// Trip is a posting as returned by GET /api/trips/ and the push channel.
type Trip struct {
	ID             string
	UserID         string
	Role           Role
	Type           *TripType
	Origin         string
	Destination    string
	DepartureDate  string
	Departure      Departure
	NumberOfPeople int
	SuggestedPrice *int
	Comment        *string
	// CreatedAt is echoed back verbatim as the pagination cursor.
	CreatedAt string
}

type tripWire struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Role           Role      `json:"role"`
	Type           *TripType `json:"type"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureDate  string    `json:"departure_date"`
	DepartureTime  *string   `json:"departure_time"`
	DepartureNow   bool      `json:"departure_now"`
	NumberOfPeople int       `json:"number_of_people"`
	SuggestedPrice *int      `json:"suggested_price"`
	Comment        *string   `json:"comment"`
	CreatedAt      string    `json:"created_at"`
}

func (t Trip) MarshalJSON() ([]byte, error) {
	now, clock := departureToWire(t.Departure)
	return json.Marshal(tripWire{
		ID:             t.ID,
		UserID:         t.UserID,
		Role:           t.Role,
		Type:           t.Type,
		Origin:         t.Origin,
		Destination:    t.Destination,
		DepartureDate:  t.DepartureDate,
		DepartureTime:  clock,
		DepartureNow:   now,
		NumberOfPeople: t.NumberOfPeople,
		SuggestedPrice: t.SuggestedPrice,
		Comment:        t.Comment,
		CreatedAt:      t.CreatedAt,
	})
}

func (t *Trip) UnmarshalJSON(b []byte) error {
	var w tripWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return fmt.Errorf("trip: missing id")
	}
	if !w.Role.Valid() {
		return fmt.Errorf("trip %s: unknown role %q", w.ID, w.Role)
	}

	*t = Trip{
		ID:             w.ID,
		UserID:         w.UserID,
		Role:           w.Role,
		Type:           w.Type,
		Origin:         w.Origin,
		Destination:    w.Destination,
		DepartureDate:  w.DepartureDate,
		Departure:      departureFromWire(w.DepartureNow, w.DepartureTime),
		NumberOfPeople: w.NumberOfPeople,
		SuggestedPrice: w.SuggestedPrice,
		Comment:        w.Comment,
		CreatedAt:      w.CreatedAt,
	}
	return nil
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

// CreatedTime parses CreatedAt for display. ok is false for formats the
// client does not recognise; the cursor itself is never re-formatted.
func (t Trip) CreatedTime() (time.Time, bool) {
	for _, layout := range createdAtLayouts {
		if ts, err := time.Parse(layout, t.CreatedAt); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// MatchesCity reports whether origin or destination contains q,
// case-insensitively. An empty q matches everything.
func (t Trip) MatchesCity(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Origin), q) ||
		strings.Contains(strings.ToLower(t.Destination), q)
}
