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

const jobicyAPIURL = "https://jobicy.com/api/v2/remote-jobs"

type jobicySite struct {
	baseURL string
}

func (s *jobicySite) apiURL() string {
	if s.baseURL != "" {
		return s.baseURL
	}
	return jobicyAPIURL
}

type jobicyJob struct {
	URL            string `json:"url"`
	JobTitle       string `json:"jobTitle"`
	CompanyName    string `json:"companyName"`
	JobGeo         string `json:"jobGeo"`
	JobExcerpt     string `json:"jobExcerpt"`
	JobDescription string `json:"jobDescription"`
	PubDate        string `json:"pubDate"`
}

func (s *jobicySite) Name() string { return "jobicy" }

func (s *jobicySite) Search(ctx context.Context, c *Client, params *SearchParams) (*Listings, error) {
	q := url.Values{}
	q.Set("count", fmt.Sprintf("%d", params.ResultsWanted))
	if params.Term != "" {
		q.Set("tag", params.Term)
	}

	resp, err := c.get(ctx, s.apiURL()+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("jobicy search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jobicy search: bad status: %s", resp.Status)
	}

	var payload struct {
		Jobs []any `json:"jobs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("jobicy search: decode response: %w", err)
	}

	var jobs []*jobicyJob
	cfg := &mapstructure.DecoderConfig{
		Result:  &jobs,
		TagName: "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(payload.Jobs); err != nil {
		return nil, fmt.Errorf("jobicy search: decode jobs: %w", err)
	}

	listings := &Listings{}
	for _, job := range jobs {
		posted := parseJobicyDate(job.PubDate)
		if !withinWindow(posted, params.HoursOld) {
			continue
		}

		description := job.JobDescription
		if description == "" {
			description = job.JobExcerpt
		}

		listings.Items = append(listings.Items, &Listing{
			Title:       job.JobTitle,
			Company:     job.CompanyName,
			Location:    job.JobGeo,
			Description: description,
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

func parseJobicyDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
		return &t
	}
	return nil
}
