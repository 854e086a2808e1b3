package matching

import (
	"testing"

	"github.com/fmateoc/entity-matching/pkg/model"
)

func TestCrossSourceValidatorNilSecondaryIsNoop(t *testing.T) {
	v := NewCrossSourceValidator()
	match := &model.MatchResult{Score: 70}
	v.Validate(match, &model.ExtractedEntity{}, nil)
	if match.Score != 70 {
		t.Errorf("expected score unchanged, got %v", match.Score)
	}
	if len(match.Discrepancies) != 0 {
		t.Error("cross-source validator must never emit discrepancies")
	}
}

func TestCrossSourceValidatorEINConsistent(t *testing.T) {
	v := NewCrossSourceValidator()
	match := &model.MatchResult{
		Score:         70,
		MatchedEntity: model.StoreEntity{FullName: "Acme Lending Corp"},
	}
	primary := &model.ExtractedEntity{EIN: "12-3456789", LegalName: "Acme Lending Corp"}
	secondary := &model.ExtractedEntity{EIN: "12-3456789", LegalName: "Acme Lending Corp"}

	v.Validate(match, primary, secondary)

	if match.Score <= 70 {
		t.Errorf("expected score boosted above 70, got %v", match.Score)
	}
	if len(match.Discrepancies) != 0 {
		t.Error("cross-source validator must never emit discrepancies")
	}
}

func TestCrossSourceValidatorEINMismatchPenalizes(t *testing.T) {
	v := NewCrossSourceValidator()
	match := &model.MatchResult{
		Score:         70,
		MatchedEntity: model.StoreEntity{FullName: "Acme Lending Corp"},
	}
	primary := &model.ExtractedEntity{EIN: "12-3456789", LegalName: "Acme Lending Corp"}
	secondary := &model.ExtractedEntity{EIN: "98-7654321", LegalName: "Acme Lending Corp"}

	v.Validate(match, primary, secondary)

	if match.Score >= 70 {
		t.Errorf("expected score penalized below 70, got %v", match.Score)
	}
}

func TestCrossSourceValidatorEmptyLegalNamesContributeNoBoost(t *testing.T) {
	v := NewCrossSourceValidator()
	match := &model.MatchResult{
		Score:         70,
		MatchedEntity: model.StoreEntity{FullName: "Acme Lending Corp"},
	}
	primary := &model.ExtractedEntity{}
	secondary := &model.ExtractedEntity{}

	v.Validate(match, primary, secondary)

	if match.Score != 70 {
		t.Errorf("expected empty legal names to contribute no name-axis boost, got %v", match.Score)
	}
}
