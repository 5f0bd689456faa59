package feed

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/poputka/internal/client/models"
)

// Tab is the role filter of the feed.
type Tab string

const (
	TabAll       Tab = "all"
	TabDriver    Tab = "driver"
	TabPassenger Tab = "passenger"
)

func ParseTab(s string) (Tab, error) {
	switch t := Tab(strings.ToLower(strings.TrimSpace(s))); t {
	case TabAll, TabDriver, TabPassenger:
		return t, nil
	case "drivers":
		return TabDriver, nil
	case "passengers":
		return TabPassenger, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// Filter is a pure projection over the merged list. The zero value shows
// everything.
type Filter struct {
	Tab  Tab
	City string
}

func (f Filter) Match(t models.Trip) bool {
	switch f.Tab {
	case TabDriver:
		if t.Role != models.RoleDriver {
			return false
		}
	case TabPassenger:
		if t.Role != models.RolePassenger {
			return false
		}
	}
	return t.MatchesCity(f.City)
}

// EmptyMessage is the placeholder shown when the filtered list is empty.
func (f Filter) EmptyMessage() string {
	switch f.Tab {
	case TabDriver:
		return "No drivers yet"
	case TabPassenger:
		return "No passengers yet"
	}
	return "No trips yet"
}
