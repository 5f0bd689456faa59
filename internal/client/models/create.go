package models

import "encoding/json"

// TripCreate is the body of POST /api/trips/. Nullable fields are always
// sent, as explicit nulls when absent.
type TripCreate struct {
	Role           Role
	Type           *TripType
	Origin         string
	Destination    string
	DepartureDate  string
	Departure      Departure
	NumberOfPeople int
	SuggestedPrice *int
	Comment        *string
}

type tripCreateWire struct {
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
}

func (c TripCreate) MarshalJSON() ([]byte, error) {
	now, clock := departureToWire(c.Departure)
	return json.Marshal(tripCreateWire{
		Role:           c.Role,
		Type:           c.Type,
		Origin:         c.Origin,
		Destination:    c.Destination,
		DepartureDate:  c.DepartureDate,
		DepartureTime:  clock,
		DepartureNow:   now,
		NumberOfPeople: c.NumberOfPeople,
		SuggestedPrice: c.SuggestedPrice,
		Comment:        c.Comment,
	})
}
