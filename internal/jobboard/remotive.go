package jobboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mitchellh/mapstructure"
)

const remotiveAPIURL = "https://remotive.com/api/remote-jobs"

type remotiveSite struct {
	// baseURL overrides the public API endpoint, for tests.
	baseURL string
}

func (s *remotiveSite) apiURL() string {
	if s.baseURL != "" {
		return s.baseURL
	}
	return remotiveAPIURL
}

type remotiveJob struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	CompanyName     string `json:"company_name"`
	Location        string `json:"candidate_required_location"`
	Description     string `json:"description"`
	PublicationDate string `json:"publication_date"`
}

func (s *remotiveSite) Name() string { return "remotive" }

func (s *remotiveSite) Search(ctx context.Context, c *Client, params *SearchParams) (*Listings, error) {
	q := url.Values{}
	q.Set("search", params.Term)
	q.Set("limit", fmt.Sprintf("%d", params.ResultsWanted))

	resp, err := c.get(ctx, s.apiURL()+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("remotive search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remotive search: bad status: %s", resp.Status)
	}

	var payload struct {
		Jobs []any `json:"jobs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("remotive search: decode response: %w", err)
	}

	var jobs []*remotiveJob
	cfg := &mapstructure.DecoderConfig{
		Result:  &jobs,
		TagName: "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(payload.Jobs); err != nil {
		return nil, fmt.Errorf("remotive search: decode jobs: %w", err)
	}

	listings := &Listings{}
	for _, job := range jobs {
		posted := parseRemotiveDate(job.PublicationDate)
		if !withinWindow(posted, params.HoursOld) {
			continue
		}

		listings.Items = append(listings.Items, &Listing{
			Title:       job.Title,
			Company:     job.CompanyName,
			Location:    job.Location,
			Description: job.Description,
			URL:         job.URL,
			Site:        s.Name(),
			PostedAt:    posted,
		})

		if listings.Len() >= params.ResultsWanted {
			break
		}
	}

	return listings, nil
}

func parseRemotiveDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
