package matching

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/fmateoc/entity-matching/internal/platform/tracing"
	"github.com/fmateoc/entity-matching/pkg/model"
)

// Processor wraps an Engine with the decision-derivation rule and the
// audit-trail bookkeeping that turns a ranked candidate list into a
// complete ProcessingResult.
type Processor struct {
	log    ectologger.Logger
	engine *Engine
}

// NewProcessor constructs a Processor around an already-configured Engine.
func NewProcessor(log ectologger.Logger, engine *Engine) *Processor {
	return &Processor{log: log, engine: engine}
}

// Process runs the matching pipeline for one extraction (plus an optional
// secondary, corroborating extraction) and derives a decision from the
// top-ranked candidate. It never returns an error: a panic during matching
// is recovered into a DecisionError result, and a failed store lookup only
// drops that stage's candidates (see Engine.FindMatches), so a batch run
// can always continue.
func (p *Processor) Process(ctx context.Context, primary *model.ExtractedEntity, secondary *model.ExtractedEntity) model.ProcessingResult {
	ctx, span := tracing.StartSpan(ctx, "matching.Processor.Process")
	defer span.End()

	start := time.Now()
	result := model.ProcessingResult{
		ExtractedData: *primary,
		TaxFormData:   secondary,
		EntityType:    primary.InferredType,
	}
	result.AddAuditEntry(start, "Processing started")

	defer func() {
		if r := recover(); r != nil {
			p.log.WithContext(ctx).WithFields(map[string]any{"panic": r}).Error("Recovered from panic during matching")
			result.Decision = model.DecisionError
			result.AddMetadata("error", "panic during matching")
			result.AddAuditEntry(time.Now(), "Processing failed with a panic")
			result.ProcessedAt = time.Now()
			result.ProcessingTime = result.ProcessedAt.Sub(start)
		}
	}()

	matches := p.engine.FindMatches(ctx, primary, secondary)
	for _, m := range matches {
		result.AddMatch(m)
	}

	result.Decision = deriveDecision(matches)
	if len(matches) > 0 {
		selected := matches[0]
		result.SelectedMatch = &selected
	}

	result.AddAuditEntry(time.Now(), "Processing completed with decision "+string(result.Decision))
	result.ProcessedAt = time.Now()
	result.ProcessingTime = result.ProcessedAt.Sub(start)

	return result
}

// deriveDecision applies the top-candidate decision rule: an empty
// candidate list is always a new entity (NO_MATCH); otherwise the score
// bands decide, with a CRITICAL discrepancy downgrading an otherwise
// MATCH-eligible mid-band score to MANUAL_REVIEW.
func deriveDecision(matches []model.MatchResult) model.Decision {
	if len(matches) == 0 {
		return model.DecisionNoMatch
	}

	top := matches[0]
	switch {
	case top.Score >= 85:
		return model.DecisionMatch
	case top.Score >= 70:
		if top.HasCriticalDiscrepancy() {
			return model.DecisionManualReview
		}
		return model.DecisionMatch
	case top.Score >= 50:
		return model.DecisionManualReview
	default:
		return model.DecisionNoMatch
	}
}
