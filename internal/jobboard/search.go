package jobboard

import "strings"

const defaultResultsWanted = 15

// DefaultSites are queried when the search names none.
var DefaultSites = []string{"remotive", "jobicy", "linkedin"}

// SearchParams describe one collection run.
type SearchParams struct {
	Term          string   `mapstructure:"term"`
	Location      string   `mapstructure:"location"`
	ResultsWanted int      `mapstructure:"results-wanted"`
	HoursOld      int      `mapstructure:"hours-old"`
	Sites         []string `mapstructure:"sites"`
}

func (p *SearchParams) normalize() {
	if p.ResultsWanted <= 0 {
		p.ResultsWanted = defaultResultsWanted
	}

	if len(p.Sites) == 0 {
		p.Sites = DefaultSites
	}

	sites := make([]string, 0, len(p.Sites))
	for _, s := range p.Sites {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			sites = append(sites, s)
		}
	}
	p.Sites = sites
}
