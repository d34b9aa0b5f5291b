package filtering

import (
	"context"
	"strings"

	"career-agent/internal/jobboard"
)

type locationFilter struct {
	cities []string
}

// NewLocation creates a filter that keeps listings whose location contains
// one of the target cities. An empty city list keeps everything.
func NewLocation(cities []string) Filter {
	trimmed := make([]string, 0, len(cities))
	for _, city := range cities {
		city = strings.TrimSpace(city)
		if city != "" {
			trimmed = append(trimmed, city)
		}
	}

	return &locationFilter{cities: trimmed}
}

func (f *locationFilter) Name() string { return "location" }

func (f *locationFilter) Disable(string) {}

func (f *locationFilter) IsEnabled() bool { return true }

func (f *locationFilter) Validate() error { return nil }

func (f *locationFilter) Apply(_ context.Context, l *jobboard.Listings) (*jobboard.Listings, Step, error) {
	initial := l.Len()
	if len(f.cities) == 0 {
		return l, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := make([]*jobboard.Listing, 0, initial)
	for _, li := range l.Items {
		if f.matches(li.Location) {
			kept = append(kept, li)
		}
	}
	l.Items = kept

	return l, Step{Initial: initial, Dropped: initial - l.Len(), Left: l.Len()}, nil
}

func (f *locationFilter) matches(location string) bool {
	loc := strings.ToLower(location)
	for _, city := range f.cities {
		if strings.Contains(loc, strings.ToLower(city)) {
			return true
		}
	}
	return false
}
