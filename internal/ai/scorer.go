package ai

import (
	"context"

	"career-agent/internal/jobboard"
)

// FitReport is the parsed result of one model evaluation.
type FitReport struct {
	Score     int
	Rationale string
	Strategy  string
	Raw       string
}

// Scorer estimates how well a listing matches the configured candidate profile.
type Scorer interface {
	Evaluate(ctx context.Context, listing *jobboard.Listing) (*FitReport, error)
}
