package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fmateoc/entity-matching/pkg/model"
	"github.com/fmateoc/entity-matching/pkg/normalize"
)

const (
	legalNameThreshold   = 0.85
	fundManagerThreshold = 0.70
)

// FuzzyNameMatcher scores an extraction against a candidate by comparing
// normalized legal names and, for composite (managed-fund) entities,
// normalized fund-manager names.
type FuzzyNameMatcher struct {
	scorer *Scorer
}

// NewFuzzyNameMatcher constructs a FuzzyNameMatcher.
func NewFuzzyNameMatcher() *FuzzyNameMatcher {
	return &FuzzyNameMatcher{scorer: NewScorer()}
}

// Match scores extracted against candidate, producing a MatchResult with
// the legal-name and, when applicable, fund-manager fuzzy score
// components already recorded.
func (f *FuzzyNameMatcher) Match(extracted *model.ExtractedEntity, candidate model.StoreEntity) model.MatchResult {
	result := model.MatchResult{
		MatchedEntity: candidate,
		Strategy:      model.StrategyFuzzyName,
	}

	legalScore := f.matchLegalName(&result, extracted.LegalName, extracted.DBA, candidate.FullName)

	isComposite := extracted.IsComposite()
	candidateIsManaged := candidate.FundManagerName != ""

	var fundManagerScore float64
	switch {
	case isComposite && candidateIsManaged:
		fundManagerScore = f.matchFundManager(&result, extracted.FundManager, candidate.FundManagerName)
		result.IsCompositeMatch = true
	case isComposite != candidateIsManaged:
		// One side carries a fund manager, the other doesn't: the
		// composite score is penalized but still computed so a genuine
		// match isn't thrown away outright.
		fundManagerScore = 0.3
		result.IsCompositeMatch = true
		result.AddDiscrepancy(model.Discrepancy{
			Type:        model.TypeEntityTypeMismatch,
			Severity:    model.SeverityMedium,
			Axis:        model.AxisName,
			Description: "Entity type mismatch (managed vs standalone)",
		})
	default:
		result.IsCompositeMatch = false
	}

	composite := f.compositeScore(legalScore, fundManagerScore, result.IsCompositeMatch)
	result.Score = composite * 100

	result.AddScoreComponent(model.LegalNameFuzzy, legalScore*70)
	if fundManagerScore > 0 {
		result.AddScoreComponent(model.FundManagerFuzzy, fundManagerScore*30)
	}

	return result
}

// matchLegalName compares a candidate extraction's full name against a
// store name, special-casing DBA names, exact matches, containment, and
// word-reordering before falling back to raw Jaro-Winkler similarity.
// legalNameThreshold and the 0.7 partial-match floor below it only gate
// which evidence string gets recorded, not the score itself.
func (f *FuzzyNameMatcher) matchLegalName(result *model.MatchResult, extractedName, extractedDBA, storeName string) float64 {
	dba := normalize.ExtractDBA(storeName)
	if dba.HasDBA() {
		if extractedDBA != "" {
			normExtractedDBA := normalize.Name(extractedDBA)
			normStoreDBA := normalize.Name(dba.TradeName)
			if normExtractedDBA != "" && normStoreDBA != "" {
				if jw := f.scorer.JaroWinkler(normExtractedDBA, normStoreDBA); jw > 0.85 {
					result.AddEvidence("Extracted DBA matches LoanIQ DBA")
					return 0.95
				}
			}
		}

		legalSim := f.matchLegalName(result, extractedName, extractedDBA, dba.LegalName)
		tradeSim := f.matchLegalName(result, extractedName, extractedDBA, dba.TradeName)
		if tradeSim > legalSim {
			result.AddEvidence("DBA match detected")
			return tradeSim
		}
		return legalSim
	}

	normExtracted := normalize.Name(extractedName)
	normStore := normalize.Name(storeName)

	if normExtracted == "" || normStore == "" {
		return 0
	}

	if normExtracted == normStore {
		result.AddEvidence("Legal name exact match after normalization")
		return 1.0
	}

	jw := f.scorer.JaroWinkler(normExtracted, normStore)

	if strings.Contains(normExtracted, normStore) || strings.Contains(normStore, normExtracted) {
		result.AddEvidence("Legal name subset match")
		return max(jw, 0.85)
	}

	if sameWordsReordered(normExtracted, normStore) {
		result.AddEvidence("Legal name match with word reordering")
		return max(jw, 0.80)
	}

	switch {
	case jw > legalNameThreshold:
		result.AddEvidence(fmt.Sprintf("Legal name fuzzy match (%.2f)", jw))
	case jw > 0.7:
		result.AddEvidence(fmt.Sprintf("Legal name partial match (%.2f)", jw))
	}

	return jw
}

// matchFundManager compares a candidate extraction's fund-manager name
// against a store fund-manager field, boosting for recognized
// abbreviation/acronym pairs (checked on both the normalized and the
// lowercased original names, since normalization strips form words such
// as "management") and containment. fundManagerThreshold only gates
// whether a corroborating evidence string gets recorded.
func (f *FuzzyNameMatcher) matchFundManager(result *model.MatchResult, extractedManager, storeManager string) float64 {
	normExtracted := normalize.FundManager(extractedManager)
	normStore := normalize.FundManager(storeManager)

	if normExtracted == "" || normStore == "" {
		return 0
	}

	jw := f.scorer.JaroWinkler(normExtracted, normStore)

	if areCommonAbbreviations(normExtracted, normStore) ||
		areCommonAbbreviations(strings.ToLower(extractedManager), strings.ToLower(storeManager)) {
		jw = max(jw, 0.90)
		result.AddEvidence("Fund manager abbreviation match")
	}

	if strings.Contains(normExtracted, normStore) || strings.Contains(normStore, normExtracted) {
		jw = max(jw, 0.85)
		result.AddEvidence("Fund manager subset match")
	}

	if jw > fundManagerThreshold {
		result.AddEvidence(fmt.Sprintf("Fund manager fuzzy match (%.2f)", jw))
	}

	return jw
}

// compositeScore combines the legal-name and fund-manager scores into a
// single fraction in [0, 1]. For composite entities, both components
// must clear their own thresholds to earn the 70/30 weighted blend;
// otherwise the match is capped at half the weaker component. Standalone
// entities are scored on legal name alone.
func (f *FuzzyNameMatcher) compositeScore(legal, fundManager float64, isComposite bool) float64 {
	if !isComposite {
		return legal
	}
	if legal < 0.7 || fundManager < 0.6 {
		return min(legal, fundManager) * 0.5
	}
	return 0.7*legal + 0.3*fundManager
}

func sameWordsReordered(a, b string) bool {
	wa := strings.Fields(a)
	wb := strings.Fields(b)
	if len(wa) != len(wb) || len(wa) <= 1 {
		return false
	}
	sort.Strings(wa)
	sort.Strings(wb)
	for i := range wa {
		if wa[i] != wb[i] {
			return false
		}
	}
	return true
}

// areCommonAbbreviations reports whether one side is a single word equal
// to the first-letter acronym of the other side's words.
func areCommonAbbreviations(a, b string) bool {
	return isAcronymOf(a, b) || isAcronymOf(b, a)
}

func isAcronymOf(maybeAcronym, full string) bool {
	words := strings.Fields(maybeAcronym)
	if len(words) != 1 {
		return false
	}
	acronym := words[0]

	fullWords := strings.Fields(full)
	if len(fullWords) == 0 || len(acronym) != len(fullWords) {
		return false
	}

	var b strings.Builder
	for _, w := range fullWords {
		if w == "" {
			return false
		}
		b.WriteByte(w[0])
	}
	return b.String() == acronym
}
