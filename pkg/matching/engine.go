package matching

import (
	"context"
	"sort"

	"github.com/Gobusters/ectologger"

	"github.com/fmateoc/entity-matching/internal/platform/tracing"
	"github.com/fmateoc/entity-matching/pkg/model"
	"github.com/fmateoc/entity-matching/pkg/store"
)

// Engine runs the full matching pipeline against one extraction (plus
// an optional second, corroborating extraction) and returns a ranked
// list of candidate matches. Its collaborators are passed in explicitly
// rather than resolved from a container, so a fake RecordStore is
// enough to exercise it in tests.
type Engine struct {
	log         ectologger.Logger
	recordStore store.RecordStore

	identifierMatcher *IdentifierMatcher
	fuzzyNameMatcher  *FuzzyNameMatcher
	emailBooster      *EmailDomainBooster
	crossSource       *CrossSourceValidator
	discrepancies     *DiscrepancyDetector
	duplicates        *DuplicateDetector
	confidence        *ConfidenceScorer

	cfg Config
}

// NewEngine constructs an Engine from its collaborators.
func NewEngine(log ectologger.Logger, recordStore store.RecordStore, cfg Config) *Engine {
	return &Engine{
		log:         log,
		recordStore: recordStore,

		identifierMatcher: NewIdentifierMatcher(recordStore),
		fuzzyNameMatcher:  NewFuzzyNameMatcher(),
		emailBooster:      NewEmailDomainBooster(),
		crossSource:       NewCrossSourceValidator(),
		discrepancies:     NewDiscrepancyDetector(recordStore),
		duplicates:        NewDuplicateDetector(recordStore),
		confidence:        NewConfidenceScorer(),

		cfg: cfg,
	}
}

// FindMatches runs the full pipeline for primary (and, if present,
// secondary) and returns up to cfg.MaxResults candidates ranked by
// final score descending. It never returns an error: a failed store
// lookup is logged and the stage that failed contributes nothing,
// rather than aborting the whole match.
func (e *Engine) FindMatches(ctx context.Context, primary *model.ExtractedEntity, secondary *model.ExtractedEntity) []model.MatchResult {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.FindMatches")
	defer span.End()

	log := e.log.WithContext(ctx).WithFields(map[string]any{
		"legal_name": primary.LegalName,
	})
	log.Debug("Starting matching process")

	var matches []model.MatchResult
	seen := make(map[int64]int) // entity ID -> index into matches

	e.addIdentifierMatches(ctx, log, primary, &matches, seen)
	e.addFuzzyNameMatches(ctx, log, primary, &matches, seen)
	e.addEmailDomainMatches(ctx, log, primary, &matches, seen)

	if secondary != nil {
		log.Debug("Cross-validating with secondary extraction")
		for i := range matches {
			e.crossSource.Validate(&matches[i], primary, secondary)
		}
	}

	e.finalizeMatches(ctx, log, primary, secondary, matches)

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	if len(matches) > e.cfg.MaxResults {
		matches = matches[:e.cfg.MaxResults]
	}

	log.WithFields(map[string]any{"match_count": len(matches)}).Info("Matching process complete")
	return matches
}

func (e *Engine) addIdentifierMatches(ctx context.Context, log ectologger.Logger, primary *model.ExtractedEntity, matches *[]model.MatchResult, seen map[int64]int) {
	identifierMatches, err := e.identifierMatcher.Match(ctx, primary)
	if err != nil {
		log.WithError(err).Error("Identifier matching failed")
		return
	}
	for _, m := range identifierMatches {
		*matches = append(*matches, m)
		seen[m.MatchedEntity.EntityID] = len(*matches) - 1
	}
	log.WithFields(map[string]any{"identifier_match_count": len(identifierMatches)}).Debug("Identifier matching complete")
}

func (e *Engine) addFuzzyNameMatches(ctx context.Context, log ectologger.Logger, primary *model.ExtractedEntity, matches *[]model.MatchResult, seen map[int64]int) {
	if len(*matches) >= e.cfg.FuzzyNameMinCandidates {
		return
	}

	candidates, err := e.recordStore.FindCandidatesByName(ctx, primary.LegalName, primary.FundManager)
	if err != nil {
		log.WithError(err).Error("Name-candidate lookup failed")
		return
	}
	log.WithFields(map[string]any{"candidate_count": len(candidates)}).Debug("Found name-based candidates")

	for _, candidate := range candidates {
		fuzzyMatch := e.fuzzyNameMatcher.Match(primary, candidate)

		if idx, ok := seen[candidate.EntityID]; ok {
			// Already seeded by an identifier match; layer the name
			// corroboration onto it instead of discarding it, so a
			// candidate found by two independent stages accumulates
			// evidence from both.
			mergeFuzzyNameMatch(&(*matches)[idx], fuzzyMatch)
			continue
		}
		if fuzzyMatch.Score > e.cfg.FuzzyNameScoreFloor {
			*matches = append(*matches, fuzzyMatch)
			seen[candidate.EntityID] = len(*matches) - 1
		}
	}
}

// mergeFuzzyNameMatch folds the name-matching evidence and score
// components from a fuzzy-only scoring pass into a candidate already
// present in the result set, leaving its strategy and matched entity
// untouched.
func mergeFuzzyNameMatch(existing *model.MatchResult, fuzzy model.MatchResult) {
	for _, c := range fuzzy.ScoreComponents {
		existing.AddScoreComponent(c.Kind, c.Value)
	}
	existing.Evidence = append(existing.Evidence, fuzzy.Evidence...)
	existing.Discrepancies = append(existing.Discrepancies, fuzzy.Discrepancies...)
	if fuzzy.IsCompositeMatch {
		existing.IsCompositeMatch = true
	}
}

func (e *Engine) addEmailDomainMatches(ctx context.Context, log ectologger.Logger, primary *model.ExtractedEntity, matches *[]model.MatchResult, seen map[int64]int) {
	if primary.EmailDomain == "" {
		return
	}

	for i := range *matches {
		e.emailBooster.Enhance(&(*matches)[i], primary.EmailDomain)
	}

	if len(*matches) >= e.cfg.EmailDomainMinCandidates {
		return
	}

	candidates, err := e.recordStore.FindByEmailDomain(ctx, primary.EmailDomain)
	if err != nil {
		log.WithError(err).Error("Email-domain lookup failed")
		return
	}

	for _, candidate := range candidates {
		if _, ok := seen[candidate.EntityID]; ok {
			continue
		}
		match := model.MatchResult{
			MatchedEntity: candidate,
			Score:         e.cfg.EmailDomainBaselineScore,
			Strategy:      model.StrategyEmailDomain,
		}
		match.AddEvidence("Email domain match: " + primary.EmailDomain)
		*matches = append(*matches, match)
		seen[candidate.EntityID] = len(*matches) - 1
	}
}

func (e *Engine) finalizeMatches(ctx context.Context, log ectologger.Logger, primary, secondary *model.ExtractedEntity, matches []model.MatchResult) {
	for i := range matches {
		discrepancies, err := e.discrepancies.Detect(ctx, primary, secondary, matches[i].MatchedEntity)
		if err != nil {
			log.WithError(err).Error("Discrepancy detection failed")
		} else {
			for _, d := range discrepancies {
				matches[i].AddDiscrepancy(d)
			}
		}

		dupes := e.duplicates.FindPotentialDuplicates(ctx, matches[i].MatchedEntity)
		if len(dupes) > 0 {
			matches[i].PotentialDuplicates = append(matches[i].PotentialDuplicates, dupes...)
			log.WithFields(map[string]any{
				"entity_id":      matches[i].MatchedEntity.EntityID,
				"duplicate_count": len(dupes),
			}).Warn("Found potential duplicates")
		}

		e.confidence.Score(&matches[i], primary)
	}
}
