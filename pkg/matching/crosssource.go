package matching

import (
	"github.com/fmateoc/entity-matching/pkg/model"
)

// CrossSourceValidator folds corroborating or contradicting evidence from
// a second extraction (typically a tax form accompanying a primary ADF)
// into an already-found match's score. It only ever adjusts score and
// records evidence; it is never a source of Discrepancy values — the
// discrepancy detector is the sole emitter of CROSS_SOURCE-axis findings,
// so the two stages don't duplicate each other's output even though they
// inspect the same pair of extractions.
type CrossSourceValidator struct {
	scorer *Scorer
}

// NewCrossSourceValidator constructs a CrossSourceValidator.
func NewCrossSourceValidator() *CrossSourceValidator {
	return &CrossSourceValidator{scorer: NewScorer()}
}

// Validate compares primary and secondary extractions against match's
// candidate entity and adjusts match.Score by the accumulated boost,
// clamped to [0, 100].
func (v *CrossSourceValidator) Validate(match *model.MatchResult, primary, secondary *model.ExtractedEntity) {
	if secondary == nil {
		return
	}

	var boost float64
	boost += v.einAxis(match, primary, secondary)
	boost += v.legalNameAxis(match, primary, secondary)
	boost += v.countryAxis(primary, secondary)
	boost += v.additionalIdentifierAxis(match, primary, secondary)

	if boost == 0 {
		return
	}

	current, _ := match.ScoreComponent(model.TaxFormValidation)
	total := min(100, current+boost)
	match.AddScoreComponent(model.TaxFormValidation, total)
	match.Score = max(0, min(100, match.Score+boost))
}

func (v *CrossSourceValidator) einAxis(match *model.MatchResult, primary, secondary *model.ExtractedEntity) float64 {
	switch {
	case primary.EIN != "" && secondary.EIN != "":
		if primary.EIN == secondary.EIN {
			match.AddEvidence("EIN consistent between ADF and tax form")
			return 10
		}
		return -15
	case secondary.EIN != "":
		boost := 5.0
		if match.MatchedEntity.EIN == secondary.EIN {
			boost += 10
		} else {
			boost -= 10
		}
		return boost
	default:
		return 0
	}
}

func (v *CrossSourceValidator) legalNameAxis(match *model.MatchResult, primary, secondary *model.ExtractedEntity) float64 {
	if primary.LegalName == "" || secondary.LegalName == "" {
		return 0
	}

	var boost float64

	jw := v.scorer.JaroWinkler(primary.LegalName, secondary.LegalName)
	switch {
	case jw > 0.9:
		boost += 8
	case jw > 0.8:
		boost += 3
	case jw < 0.7:
		boost -= 10
	}

	taxVsMatched := v.scorer.JaroWinkler(secondary.LegalName, match.MatchedEntity.FullName)
	if taxVsMatched > 0.85 {
		boost += 5
		match.AddEvidence("Tax form name matches LoanIQ")
	}

	return boost
}

func (v *CrossSourceValidator) countryAxis(primary, secondary *model.ExtractedEntity) float64 {
	if primary.CountryCode == "" || secondary.CountryCode == "" {
		return 0
	}
	if primary.CountryCode != secondary.CountryCode {
		return -5
	}
	return 2
}

func (v *CrossSourceValidator) additionalIdentifierAxis(match *model.MatchResult, primary, secondary *model.ExtractedEntity) float64 {
	var boost float64
	if secondary.LEI != "" && primary.LEI == "" && match.MatchedEntity.LEI == secondary.LEI {
		boost += 15
	}
	if secondary.DebtDomainID != "" && primary.DebtDomainID == "" && match.MatchedEntity.DebtDomainID == secondary.DebtDomainID {
		boost += 10
	}
	return boost
}
