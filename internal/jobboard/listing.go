package jobboard

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

// Listing is one job posting returned by a job board. Fields are immutable
// after collection; only the AI report is attached later.
type Listing struct {
	Title       string     `json:"title,omitempty"`
	Company     string     `json:"company,omitempty"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty"`
	Site        string     `json:"site,omitempty"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`

	AI *FitReport `json:"ai,omitempty"`
}

// FitReport holds the AI evaluation attached to a listing.
type FitReport struct {
	Score     int    `json:"score"`
	Rationale string `json:"rationale,omitempty"`
	Strategy  string `json:"strategy,omitempty"`
	Raw       string `json:"raw,omitempty"`
	Error     string `json:"error,omitempty"`
}

type Listings struct {
	Items []*Listing
}

func (l *Listings) Len() int {
	return len(l.Items)
}

// Key identifies a listing for deduplication: the URL when present,
// otherwise the title and company concatenated.
func (li *Listing) Key() string {
	if url := strings.TrimSpace(li.URL); url != "" {
		return url
	}
	return strings.ToLower(strings.TrimSpace(li.Title) + "|" + strings.TrimSpace(li.Company))
}

// Cap truncates the list to at most n items, keeping input order.
func (l *Listings) Cap(n int) {
	if n > 0 && len(l.Items) > n {
		l.Items = l.Items[:n]
	}
}

// Append adds the items of s to the end of the list.
func (l *Listings) Append(s *Listings) {
	l.Items = append(l.Items, s.Items...)
}

func (l *Listings) Titles() []string {
	titles := make([]string, 0, len(l.Items))
	for _, li := range l.Items {
		titles = append(titles, li.Title)
	}
	return titles
}

// ReportBySite groups brief listing descriptions by the site they came from.
func (l *Listings) ReportBySite() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, li := range l.Items {
		entry := map[string]string{
			"title":    li.Title,
			"company":  li.Company,
			"location": li.Location,
			"url":      li.URL,
		}
		if li.AI != nil {
			if li.AI.Error != "" {
				entry["ai_error"] = li.AI.Error
			} else {
				entry["ai_score"] = strconv.Itoa(li.AI.Score)
				entry["ai_rationale"] = li.AI.Rationale
				entry["ai_strategy"] = li.AI.Strategy
			}
		}
		report[li.Site] = append(report[li.Site], entry)
	}
	return report
}

func (l *Listings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "listings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return "", err
	}
	return file.Name(), nil
}
