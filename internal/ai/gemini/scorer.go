package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"career-agent/internal/ai"
	"career-agent/internal/jobboard"
	"career-agent/internal/logger"

	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Scorer builds fit prompts for listings and parses the model replies.
type Scorer struct {
	generator contentGenerator
	profile   string
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200

	// The description snippet embedded in the prompt is capped to keep
	// requests small; matches the upstream boards' snippet sizes.
	maxDescriptionRunes = 1000

	// Sentinel values substituted when the reply is missing a field.
	defaultRationale = "Analysis unavailable"
	defaultStrategy  = "N/A"
)

var (
	scoreRe    = regexp.MustCompile(`SCORE:\s*(\d+)`)
	whyRe      = regexp.MustCompile(`WHY:\s*(.*)`)
	strategyRe = regexp.MustCompile(`STRATEGY:\s*(.*)`)
)

func NewScorer(generator contentGenerator, profile string, maxLogLength int, log *zap.Logger) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Scorer{
		generator: generator,
		profile:   profile,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Evaluate sends one listing to the model and returns the parsed fit report.
// Missing reply fields fall back to safe defaults; only transport-level
// failures surface as errors.
func (s *Scorer) Evaluate(ctx context.Context, listing *jobboard.Listing) (*ai.FitReport, error) {
	if listing == nil {
		return nil, fmt.Errorf("listing is required")
	}

	prompt := buildPrompt(s.profile, listing)

	s.logger.Debug("gemini generate content request",
		zap.String("listing_url", listing.URL),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini generate content response",
		zap.String("listing_url", listing.URL),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	report := parseReply(raw)
	report.Raw = raw

	return report, nil
}

func buildPrompt(profile string, listing *jobboard.Listing) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Profile:\n{{PROFILE}}\n\nRole: {{TITLE}} at {{COMPANY}}\n{{DESCRIPTION}}\n\nSCORE/WHY/STRATEGY:"
	}

	description := strings.TrimSpace(listing.Description)
	if description == "" {
		description = "No description."
	}
	description = truncateRunes(description, maxDescriptionRunes)

	prompt := strings.ReplaceAll(template, "{{PROFILE}}", strings.TrimSpace(profile))
	prompt = strings.ReplaceAll(prompt, "{{TITLE}}", listing.Title)
	prompt = strings.ReplaceAll(prompt, "{{COMPANY}}", listing.Company)
	prompt = strings.ReplaceAll(prompt, "{{DESCRIPTION}}", description)

	return prompt
}

// parseReply extracts the score, rationale and strategy with independent
// regexes so one malformed line never poisons the others.
func parseReply(raw string) *ai.FitReport {
	report := &ai.FitReport{
		Score:     0,
		Rationale: defaultRationale,
		Strategy:  defaultStrategy,
	}

	if m := scoreRe.FindStringSubmatch(raw); m != nil {
		if score, err := strconv.Atoi(m[1]); err == nil {
			report.Score = clampScore(score)
		}
	}

	if m := whyRe.FindStringSubmatch(raw); m != nil {
		if why := strings.TrimSpace(m[1]); why != "" {
			report.Rationale = why
		}
	}

	if m := strategyRe.FindStringSubmatch(raw); m != nil {
		if strategy := strings.TrimSpace(m[1]); strategy != "" {
			report.Strategy = strategy
		}
	}

	return report
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
