package matching

import (
	"context"
	"fmt"

	"github.com/fmateoc/entity-matching/pkg/model"
	"github.com/fmateoc/entity-matching/pkg/store"
)

// identifierTier describes one priority level of identifier matching:
// which field on the extraction to look up, how to query the store, the
// base score awarded to a new match, the boost applied when the
// identifier corroborates an existing match found by a higher tier, and
// the score-component kinds used to record both.
type identifierTier struct {
	kind       model.IdentifierKind
	value      func(*model.ExtractedEntity) string
	lookup     func(context.Context, store.RecordStore, string) ([]model.StoreEntity, error)
	baseScore  float64
	boost      float64
	matchKind  model.ScoreComponentKind
	boostKind  model.ScoreComponentKind
}

// identifierTiers is ordered by priority: MEI is the most reliable
// identifier, DebtDomainID the least. Every hit at MEI's tier becomes its
// own match (an entity can plausibly have distinct MEI-linked records);
// every hit at the lower tiers either introduces a new match or
// corroborates one already found by a higher tier.
var identifierTiers = []identifierTier{
	{
		kind:      model.IdentifierMEI,
		value:     func(e *model.ExtractedEntity) string { return e.MEI },
		lookup:    func(ctx context.Context, s store.RecordStore, v string) ([]model.StoreEntity, error) { return s.FindByMEI(ctx, v) },
		baseScore: 40,
		matchKind: model.MEIMatch,
		boostKind: model.MEIBoost,
	},
	{
		kind:      model.IdentifierLEI,
		value:     func(e *model.ExtractedEntity) string { return e.LEI },
		lookup:    func(ctx context.Context, s store.RecordStore, v string) ([]model.StoreEntity, error) { return s.FindByLEI(ctx, v) },
		baseScore: 35,
		boost:     20,
		matchKind: model.LEIMatch,
		boostKind: model.LEIBoost,
	},
	{
		kind:      model.IdentifierEIN,
		value:     func(e *model.ExtractedEntity) string { return e.EIN },
		lookup:    func(ctx context.Context, s store.RecordStore, v string) ([]model.StoreEntity, error) { return s.FindByEIN(ctx, v) },
		baseScore: 30,
		boost:     15,
		matchKind: model.EINMatch,
		boostKind: model.EINBoost,
	},
	{
		kind:      model.IdentifierDebtDomainID,
		value:     func(e *model.ExtractedEntity) string { return e.DebtDomainID },
		lookup:    func(ctx context.Context, s store.RecordStore, v string) ([]model.StoreEntity, error) { return s.FindByDebtDomainID(ctx, v) },
		baseScore: 25,
		boost:     10,
		matchKind: model.DebtDomainIDMatch,
		boostKind: model.DebtDomainIDBoost,
	},
}

// IdentifierMatcher finds candidates by exact identifier lookup, in
// strict priority order, and corroborates a candidate already found by a
// higher-priority identifier when a lower-priority one also matches it.
type IdentifierMatcher struct {
	store store.RecordStore
}

// NewIdentifierMatcher constructs an IdentifierMatcher against store.
func NewIdentifierMatcher(recordStore store.RecordStore) *IdentifierMatcher {
	return &IdentifierMatcher{store: recordStore}
}

// Match runs every identifier tier present on extracted against the
// store, in priority order, returning one MatchResult per distinct
// matched entity.
func (m *IdentifierMatcher) Match(ctx context.Context, extracted *model.ExtractedEntity) ([]model.MatchResult, error) {
	var results []model.MatchResult
	byEntityID := make(map[int64]int) // entity ID -> index into results

	for _, tier := range identifierTiers {
		value := tier.value(extracted)
		if value == "" {
			continue
		}

		hits, err := tier.lookup(ctx, m.store, value)
		if err != nil {
			return nil, fmt.Errorf("identifier lookup for %s: %w", tier.kind, err)
		}

		for _, hit := range hits {
			if idx, ok := byEntityID[hit.EntityID]; ok {
				if tier.boost > 0 {
					enhanceExistingMatch(&results[idx], tier, value)
				}
				continue
			}

			match := newIdentifierMatch(hit, tier, value)
			results = append(results, match)
			byEntityID[hit.EntityID] = len(results) - 1
		}
	}

	return results, nil
}

func newIdentifierMatch(entity model.StoreEntity, tier identifierTier, value string) model.MatchResult {
	match := model.MatchResult{
		MatchedEntity: entity,
		Score:         tier.baseScore,
		Strategy:      model.StrategyIdentifier,
	}
	match.AddEvidence(fmt.Sprintf("%s exact match: %s", tier.kind, value))
	match.AddScoreComponent(tier.matchKind, tier.baseScore)
	if entity.IsLocation {
		match.AddEvidence("Match is a location sub-entity")
	}
	return match
}

func enhanceExistingMatch(match *model.MatchResult, tier identifierTier, value string) {
	match.Score = min(100, match.Score+tier.boost)
	match.AddEvidence(fmt.Sprintf("Additional %s match", tier.kind))
	match.AddScoreComponent(tier.boostKind, tier.boost)
}
