package matching

import (
	"testing"

	"github.com/fmateoc/entity-matching/pkg/model"
)

func TestFuzzyNameMatcherStandaloneExactMatch(t *testing.T) {
	m := NewFuzzyNameMatcher()
	extracted := &model.ExtractedEntity{LegalName: "Acme Lending Corp"}
	candidate := model.StoreEntity{EntityID: 1, FullName: "Acme Lending Corp"}

	result := m.Match(extracted, candidate)
	if result.Score < 99 {
		t.Errorf("expected near-perfect score for exact match, got %v", result.Score)
	}
	if result.IsCompositeMatch {
		t.Error("expected standalone match, not composite")
	}
}

func TestFuzzyNameMatcherCompositeBothStrong(t *testing.T) {
	m := NewFuzzyNameMatcher()
	extracted := &model.ExtractedEntity{LegalName: "Acme Credit Fund II", FundManager: "Blackrock Capital"}
	candidate := model.StoreEntity{EntityID: 1, FullName: "Acme Credit Fund II", FundManagerName: "Blackrock Capital"}

	result := m.Match(extracted, candidate)
	if !result.IsCompositeMatch {
		t.Fatal("expected composite match")
	}
	if result.Score < 95 {
		t.Errorf("expected high composite score, got %v", result.Score)
	}
}

func TestFuzzyNameMatcherEntityTypeMismatchAddsDiscrepancy(t *testing.T) {
	m := NewFuzzyNameMatcher()
	extracted := &model.ExtractedEntity{LegalName: "Acme Credit Fund II", FundManager: "Blackrock Capital"}
	candidate := model.StoreEntity{EntityID: 1, FullName: "Acme Credit Fund II"}

	result := m.Match(extracted, candidate)
	if len(result.Discrepancies) != 1 || result.Discrepancies[0].Type != model.TypeEntityTypeMismatch {
		t.Fatalf("expected one ENTITY_TYPE_MISMATCH discrepancy, got %+v", result.Discrepancies)
	}
}

func TestFuzzyNameMatcherAcronymFundManagerMatch(t *testing.T) {
	m := NewFuzzyNameMatcher()
	score := m.matchFundManager(&model.MatchResult{}, "AM", "Apollo Management")
	if score < 0.9 {
		t.Errorf("expected acronym match to score >= 0.9, got %v", score)
	}
}

func TestFuzzyNameMatcherExtractedDBAMatchesStoreDBA(t *testing.T) {
	m := NewFuzzyNameMatcher()
	result := &model.MatchResult{}
	score := m.matchLegalName(result, "Some Unrelated LLC", "Widgetco", "Acme Holdings Inc DBA Widgetco")
	if score < 0.95 {
		t.Errorf("expected DBA-on-DBA match to score >= 0.95, got %v", score)
	}
}

func TestFuzzyNameMatcherFundManagerFuzzyRecordedOnPureFundManagerHit(t *testing.T) {
	m := NewFuzzyNameMatcher()
	extracted := &model.ExtractedEntity{LegalName: "Unrelated Holdings LLC", FundManager: "Blackrock Capital"}
	candidate := model.StoreEntity{EntityID: 1, FullName: "Totally Different Corp", FundManagerName: "Blackrock Capital"}

	result := m.Match(extracted, candidate)
	if _, ok := result.ScoreComponent(model.FundManagerFuzzy); !ok {
		t.Error("expected FundManagerFuzzy component to be recorded for a fund-manager hit")
	}
}
