package jobboard

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const linkedinGuestURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

type linkedinSite struct {
	baseURL string
}

func (s *linkedinSite) apiURL() string {
	if s.baseURL != "" {
		return s.baseURL
	}
	return linkedinGuestURL
}

func (s *linkedinSite) Name() string { return "linkedin" }

// Search scrapes the LinkedIn guest search endpoint, which serves plain HTML
// job cards without authentication.
func (s *linkedinSite) Search(ctx context.Context, c *Client, params *SearchParams) (*Listings, error) {
	q := url.Values{}
	q.Set("keywords", params.Term)
	if params.Location != "" {
		q.Set("location", params.Location)
	}
	if params.HoursOld > 0 {
		q.Set("f_TPR", fmt.Sprintf("r%d", params.HoursOld*3600))
	}

	resp, err := c.get(ctx, s.apiURL()+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("linkedin search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linkedin search: bad status: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("linkedin search: parse html: %w", err)
	}

	listings := &Listings{}
	doc.Find("div.base-card").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := cleanText(card.Find("h3.base-search-card__title").First().Text())
		company := cleanText(card.Find("h4.base-search-card__subtitle").First().Text())
		location := cleanText(card.Find("span.job-search-card__location").First().Text())
		href, _ := card.Find("a.base-card__full-link").First().Attr("href")

		if title == "" || href == "" {
			return true
		}

		var posted *time.Time
		if datetime, ok := card.Find("time").First().Attr("datetime"); ok {
			if t, err := time.Parse("2006-01-02", datetime); err == nil {
				posted = &t
			}
		}

		listings.Items = append(listings.Items, &Listing{
			Title:    title,
			Company:  company,
			Location: location,
			URL:      stripTracking(href),
			Site:     s.Name(),
			PostedAt: posted,
		})

		return listings.Len() < params.ResultsWanted
	})

	return listings, nil
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// stripTracking removes the query part LinkedIn appends to guest links.
func stripTracking(raw string) string {
	if idx := strings.Index(raw, "?"); idx != -1 {
		return raw[:idx]
	}
	return raw
}
