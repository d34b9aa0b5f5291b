package jobboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	return New(context.Background(), zap.NewNop())
}

func TestRemotiveSearchDecodesJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search"); got != "devops engineer" {
			t.Errorf("unexpected search param: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"job-count": 2, "jobs": [
			{"url": "https://remotive.com/jobs/1", "title": "DevOps Engineer",
			 "company_name": "Acme", "candidate_required_location": "India",
			 "description": "Kubernetes and Docker", "publication_date": "2026-08-29T10:00:00"},
			{"url": "https://remotive.com/jobs/2", "title": "SRE",
			 "company_name": "Globex", "candidate_required_location": "Worldwide",
			 "description": "Linux", "publication_date": ""}
		]}`))
	}))
	defer srv.Close()

	site := &remotiveSite{baseURL: srv.URL}
	listings, err := site.Search(context.Background(), testClient(t), &SearchParams{
		Term:          "devops engineer",
		ResultsWanted: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listings.Len() != 2 {
		t.Fatalf("expected 2 listings, got %d", listings.Len())
	}

	first := listings.Items[0]
	if first.Title != "DevOps Engineer" || first.Company != "Acme" {
		t.Fatalf("unexpected first listing: %+v", first)
	}
	if first.Site != "remotive" {
		t.Fatalf("expected site remotive, got %q", first.Site)
	}
	if first.PostedAt == nil {
		t.Fatal("expected posted date to be parsed")
	}
	if listings.Items[1].PostedAt != nil {
		t.Fatal("expected nil posted date for empty publication_date")
	}
}

func TestRemotiveSearchAppliesRecencyWindow(t *testing.T) {
	old := time.Now().Add(-72 * time.Hour).Format("2006-01-02T15:04:05")
	fresh := time.Now().Add(-1 * time.Hour).Format("2006-01-02T15:04:05")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"jobs": [
			{"url": "https://remotive.com/jobs/old", "title": "Old", "publication_date": "` + old + `"},
			{"url": "https://remotive.com/jobs/new", "title": "New", "publication_date": "` + fresh + `"}
		]}`))
	}))
	defer srv.Close()

	site := &remotiveSite{baseURL: srv.URL}
	listings, err := site.Search(context.Background(), testClient(t), &SearchParams{
		Term:          "x",
		ResultsWanted: 10,
		HoursOld:      24,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listings.Len() != 1 {
		t.Fatalf("expected 1 listing inside window, got %d", listings.Len())
	}
	if listings.Items[0].Title != "New" {
		t.Fatalf("expected the fresh listing, got %q", listings.Items[0].Title)
	}
}

func TestJobicySearchDecodesJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"jobs": [
			{"url": "https://jobicy.com/jobs/1", "jobTitle": "Node.js Developer",
			 "companyName": "Initech", "jobGeo": "Delhi, India",
			 "jobExcerpt": "Express APIs", "pubDate": "2026-08-29 08:30:00"}
		]}`))
	}))
	defer srv.Close()

	site := &jobicySite{baseURL: srv.URL}
	listings, err := site.Search(context.Background(), testClient(t), &SearchParams{
		Term:          "node",
		ResultsWanted: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listings.Len() != 1 {
		t.Fatalf("expected 1 listing, got %d", listings.Len())
	}

	li := listings.Items[0]
	if li.Company != "Initech" || li.Location != "Delhi, India" {
		t.Fatalf("unexpected listing: %+v", li)
	}
	if li.Description != "Express APIs" {
		t.Fatalf("expected excerpt fallback as description, got %q", li.Description)
	}
}

func TestLinkedinSearchParsesCards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<ul>
			<li><div class="base-card">
				<a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/123?refId=abc"></a>
				<h3 class="base-search-card__title"> DevOps  Engineer </h3>
				<h4 class="base-search-card__subtitle">Acme Corp</h4>
				<span class="job-search-card__location">Noida, Uttar Pradesh, India</span>
				<time class="job-search-card__listdate" datetime="2026-08-28"></time>
			</div></li>
			<li><div class="base-card">
				<h3 class="base-search-card__title">No link card</h3>
			</div></li>
		</ul>`))
	}))
	defer srv.Close()

	site := &linkedinSite{baseURL: srv.URL}
	listings, err := site.Search(context.Background(), testClient(t), &SearchParams{
		Term:          "devops",
		Location:      "Delhi, India",
		ResultsWanted: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listings.Len() != 1 {
		t.Fatalf("expected 1 listing, got %d", listings.Len())
	}

	li := listings.Items[0]
	if li.Title != "DevOps Engineer" {
		t.Fatalf("expected whitespace-normalized title, got %q", li.Title)
	}
	if li.URL != "https://www.linkedin.com/jobs/view/123" {
		t.Fatalf("expected tracking query stripped, got %q", li.URL)
	}
	if li.Location != "Noida, Uttar Pradesh, India" {
		t.Fatalf("unexpected location: %q", li.Location)
	}
	if li.PostedAt == nil {
		t.Fatal("expected posted date from time tag")
	}
}

func TestClientSearchSkipsFailingAndUnknownSites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(context.Background(), zap.NewNop())
	c.sites = map[string]Site{
		"remotive": &remotiveSite{baseURL: srv.URL},
	}

	listings, err := c.Search(&SearchParams{
		Term:  "x",
		Sites: []string{"remotive", "nosuchboard"},
	})
	if err != nil {
		t.Fatalf("expected degraded empty result, got error: %v", err)
	}
	if listings.Len() != 0 {
		t.Fatalf("expected no listings, got %d", listings.Len())
	}
}
