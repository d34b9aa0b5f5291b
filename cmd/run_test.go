package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"career-agent/internal/jobboard"

	"go.uber.org/zap"
)

func TestApplyDefaults(t *testing.T) {
	config := &Config{}
	config.applyDefaults()

	if config.Search == nil || config.Search.Term == "" {
		t.Fatal("expected a default search term")
	}
	if config.Search.HoursOld != defaultHoursOld {
		t.Errorf("expected hours-old %d, got %d", defaultHoursOld, config.Search.HoursOld)
	}
	if len(config.Cities) == 0 {
		t.Error("expected default cities")
	}
	if config.AI.MaxJobs != defaultMaxJobs {
		t.Errorf("expected max-jobs %d, got %d", defaultMaxJobs, config.AI.MaxJobs)
	}
	if config.AI.Gemini == nil {
		t.Error("expected a gemini config")
	}
	if config.Email == nil {
		t.Error("expected an email config")
	}
	if config.Digest.Thresholds.High != 85 || config.Digest.Thresholds.Medium != 60 {
		t.Errorf("unexpected default thresholds: %+v", config.Digest.Thresholds)
	}
	if len(config.Search.Sites) != len(jobboard.DefaultSites) {
		t.Errorf("expected default sites, got %v", config.Search.Sites)
	}
}

func TestConfigFileDiscoveredInCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	content := "cities:\n  - Berlin\nprofile: Backend developer.\n"
	if err := os.WriteFile(filepath.Join(dir, app+".yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	loadConfigFile()

	config, err := getConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(config.Cities) != 1 || config.Cities[0] != "Berlin" {
		t.Fatalf("config file not applied, cities: %v", config.Cities)
	}
	if config.Profile != "Backend developer." {
		t.Fatalf("config file not applied, profile: %q", config.Profile)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	config := &Config{
		Search:  &jobboard.SearchParams{Term: "golang", HoursOld: 72},
		Cities:  []string{"Berlin"},
		Profile: "Site reliability engineer.",
		AI:      &AIConfig{MaxJobs: 3, DelaySeconds: 5},
	}
	config.applyDefaults()

	if config.Search.Term != "golang" || config.Search.HoursOld != 72 {
		t.Errorf("search params overwritten: %+v", config.Search)
	}
	if len(config.Cities) != 1 || config.Cities[0] != "Berlin" {
		t.Errorf("cities overwritten: %v", config.Cities)
	}
	if config.AI.MaxJobs != 3 || config.AI.DelaySeconds != 5 {
		t.Errorf("ai settings overwritten: %+v", config.AI)
	}
}

func TestMarkUnscored(t *testing.T) {
	scored := &jobboard.Listing{Title: "scored", AI: &jobboard.FitReport{Score: 91}}
	plain := &jobboard.Listing{Title: "plain"}
	listings := &jobboard.Listings{Items: []*jobboard.Listing{scored, plain}}

	markUnscored(listings, errors.New("quota exceeded"))

	if scored.AI.Score != 91 {
		t.Errorf("existing report overwritten: %+v", scored.AI)
	}
	if plain.AI == nil {
		t.Fatal("expected a sentinel report")
	}
	if plain.AI.Score != 0 || plain.AI.Rationale != unscoredRationale || plain.AI.Strategy != unscoredStrategy {
		t.Errorf("unexpected sentinel report: %+v", plain.AI)
	}
	if !strings.Contains(plain.AI.Error, "quota exceeded") {
		t.Errorf("expected the cause in the report, got %q", plain.AI.Error)
	}
}

func TestUnscoredReportWithoutCause(t *testing.T) {
	report := unscoredReport(nil)
	if report.Error != "" {
		t.Errorf("expected empty error, got %q", report.Error)
	}
}

func stubSendDigest(t *testing.T) *int {
	t.Helper()

	original := sendDigest
	t.Cleanup(func() { sendDigest = original })

	calls := 0
	sendDigest = func(*Config, *zap.Logger, string, string) { calls++ }
	return &calls
}

func TestHandleAction(t *testing.T) {
	calls := stubSendDigest(t)

	config := &Config{}
	config.applyDefaults()
	listings := &jobboard.Listings{Items: []*jobboard.Listing{{Title: "a", Site: "remotive"}}}

	if err := handleAction(PromptYes, config, zap.NewNop(), listings, "s", "<p>b</p>"); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit after sending, got %v", err)
	}
	if *calls != 1 {
		t.Fatalf("expected one delivery, got %d", *calls)
	}

	if err := handleAction(PromptNo, config, zap.NewNop(), listings, "s", "b"); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit for no, got %v", err)
	}

	if err := handleAction(PromptListingsToFile, config, zap.NewNop(), listings, "s", "b"); err != nil {
		t.Fatalf("unexpected error dumping listings: %v", err)
	}

	if err := handleAction("bogus", config, zap.NewNop(), listings, "s", "b"); err == nil {
		t.Fatal("expected error for invalid action")
	}

	if *calls != 1 {
		t.Fatalf("expected no further deliveries, got %d", *calls)
	}
}

func TestProcessSendsNothingWhenFiltersDropEverything(t *testing.T) {
	calls := stubSendDigest(t)

	config := &Config{Cities: []string{"Delhi"}}
	config.applyDefaults()

	listings := &jobboard.Listings{Items: []*jobboard.Listing{
		{Title: "a", Location: "Berlin, Germany"},
		{Title: "b", Location: "London, UK"},
	}}

	process(context.Background(), runCmd, config, listings, zap.NewNop())

	if *calls != 0 {
		t.Fatalf("expected no email for zero filtered listings, got %d deliveries", *calls)
	}
}
