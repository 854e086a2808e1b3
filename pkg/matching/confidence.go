package matching

import (
	"fmt"

	"github.com/fmateoc/entity-matching/pkg/country"
	"github.com/fmateoc/entity-matching/pkg/model"
)

// identifierBaseComponents orders the match-tier components by
// priority, highest first, so the first one present on a result
// determines its identifier base score.
var identifierBaseComponents = []model.ScoreComponentKind{
	model.MEIMatch, model.LEIMatch, model.EINMatch, model.DebtDomainIDMatch,
}

var identifierBoostComponents = []model.ScoreComponentKind{
	model.MEIBoost, model.LEIBoost, model.EINBoost, model.DebtDomainIDBoost,
}

var identifierAxisComponents = [][2]model.ScoreComponentKind{
	{model.MEIMatch, model.MEIBoost},
	{model.LEIMatch, model.LEIBoost},
	{model.EINMatch, model.EINBoost},
	{model.DebtDomainIDMatch, model.DebtDomainIDBoost},
}

// ConfidenceScorer assembles a match's final [0,100] score from every
// score component, discrepancy, and duplicate recorded on it by earlier
// pipeline stages.
type ConfidenceScorer struct{}

// NewConfidenceScorer constructs a ConfidenceScorer.
func NewConfidenceScorer() *ConfidenceScorer {
	return &ConfidenceScorer{}
}

// Score recomputes match.Score in place from its recorded components.
func (s *ConfidenceScorer) Score(match *model.MatchResult, extracted *model.ExtractedEntity) {
	var score float64

	score += s.identifierScore(match)
	score += s.nameScore(match)

	if boost, ok := match.ScoreComponent(model.EmailDomainBoost); ok {
		score += boost
	}

	if s.hasGeographicConsistency(extracted, match.MatchedEntity) {
		match.AddScoreComponent(model.GeographicConsistency, 10)
		score += 10
		match.AddEvidence("Geographic data consistent")
	}

	score -= s.discrepancyPenalty(match.Discrepancies)

	if bonus, ok := match.ScoreComponent(model.TaxFormValidation); ok {
		score += bonus
	}

	if count := s.identifierCount(match); count > 1 {
		bonus := float64(count-1) * 5
		match.AddScoreComponent(model.MultiIdentifierBonus, bonus)
		score += bonus
		match.AddEvidence(fmt.Sprintf("%d identifiers matched", count))
	}

	if len(match.PotentialDuplicates) > 0 {
		penalty := 5.0
		match.AddScoreComponent(model.DuplicatePenalty, penalty)
		score -= penalty
		match.AddEvidence(fmt.Sprintf("Score penalized due to %d potential duplicates.", len(match.PotentialDuplicates)))
	}

	match.Score = max(0, min(100, score))
}

func (s *ConfidenceScorer) identifierScore(match *model.MatchResult) float64 {
	var score float64
	for _, kind := range identifierBaseComponents {
		if v, ok := match.ScoreComponent(kind); ok {
			score = v
			break
		}
	}
	for _, kind := range identifierBoostComponents {
		if v, ok := match.ScoreComponent(kind); ok {
			score += v
		}
	}
	return score
}

// nameScore reads the legal-name and fund-manager fuzzy components as
// the fuzzy name matcher stored them — already weighted to [0,70] and
// [0,30] respectively — and re-applies the 0.7/0.3 composite blend on
// top of that, then scales the whole thing down to its 30% share of the
// final score. The result carries a second layer of weighting beyond
// what compositeScore already applied; that's deliberate fidelity to
// how the two stages were designed to compose, not a defect.
func (s *ConfidenceScorer) nameScore(match *model.MatchResult) float64 {
	legal, hasLegal := match.ScoreComponent(model.LegalNameFuzzy)
	fundManager, hasFundManager := match.ScoreComponent(model.FundManagerFuzzy)

	var score float64
	switch {
	case match.IsCompositeMatch && hasLegal && hasFundManager:
		if legal > 60 && fundManager > 20 {
			score = legal*0.7 + fundManager*0.3
		} else {
			score = min(legal, fundManager) * 0.5
		}
	case match.IsCompositeMatch && hasLegal:
		score = legal * 0.5
	case !match.IsCompositeMatch && hasLegal:
		score = legal
	}

	return score * 0.3
}

func (s *ConfidenceScorer) discrepancyPenalty(discrepancies []model.Discrepancy) float64 {
	var penalty float64
	for _, d := range discrepancies {
		penalty += d.Severity.ScorePenalty()
	}
	return min(penalty, 50)
}

func (s *ConfidenceScorer) identifierCount(match *model.MatchResult) int {
	var count int
	for _, axis := range identifierAxisComponents {
		if _, ok := match.ScoreComponent(axis[0]); ok {
			count++
			continue
		}
		if _, ok := match.ScoreComponent(axis[1]); ok {
			count++
		}
	}
	return count
}

// hasGeographicConsistency defaults to true when either side lacks
// country data: there's nothing to contradict. When both sides carry an
// MEI, the MEI country prefixes settle the question; otherwise the
// stored address country codes decide it.
func (s *ConfidenceScorer) hasGeographicConsistency(extracted *model.ExtractedEntity, matched model.StoreEntity) bool {
	if extracted.CountryCode == "" || matched.CountryCode == "" {
		return true
	}

	if len(extracted.MEI) >= 2 && len(matched.MEI) >= 2 {
		return extracted.MEI[:2] == matched.MEI[:2]
	}

	return country.Normalize(extracted.CountryCode) == country.Normalize(matched.CountryCode)
}
