package filtering

import (
	"context"

	"career-agent/internal/jobboard"
)

type dedupeFilter struct{}

// NewDedupe creates a filter that drops duplicate listings. A duplicate
// shares the URL of an earlier listing, or the title+company pair when the
// URL is absent. The first occurrence wins.
func NewDedupe() Filter {
	return &dedupeFilter{}
}

func (f *dedupeFilter) Name() string { return "dedupe" }

func (f *dedupeFilter) Disable(string) {}

func (f *dedupeFilter) IsEnabled() bool { return true }

func (f *dedupeFilter) Validate() error { return nil }

func (f *dedupeFilter) Apply(_ context.Context, l *jobboard.Listings) (*jobboard.Listings, Step, error) {
	initial := l.Len()

	seen := make(map[string]struct{}, initial)
	kept := make([]*jobboard.Listing, 0, initial)
	for _, li := range l.Items {
		key := li.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, li)
	}
	l.Items = kept

	return l, Step{Initial: initial, Dropped: initial - l.Len(), Left: l.Len()}, nil
}
