package wizard

import (
	"strconv"
	"strings"
)

// KnownCities are offered for quick selection on the origin and destination
// steps.
var KnownCities = []string{
	"Bishkek",
	"Osh",
	"Jalal-Abad",
	"Karakol",
	"Tokmok",
	"Uzgen",
	"Balykchy",
	"Kara-Balta",
	"Talas",
	"Naryn",
	"Batken",
	"Kyzyl-Kiya",
}

// TimePresets are the quick picks on the time step.
var TimePresets = []string{"06:00", "08:00", "10:00", "12:00", "14:00", "16:00", "18:00", "20:00"}

// ResolveCity maps user input to a city name. A 1-based index selects from
// KnownCities, a case-insensitive match returns the canonical spelling and
// anything else is taken as a custom city, trimmed.
func ResolveCity(input string) string {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(KnownCities) {
		return KnownCities[n-1]
	}
	for _, c := range KnownCities {
		if strings.EqualFold(c, input) {
			return c
		}
	}
	return input
}
