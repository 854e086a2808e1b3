package matching

import (
	"testing"

	"github.com/fmateoc/entity-matching/pkg/model"
)

func TestConfidenceScorerIdentifierOnly(t *testing.T) {
	s := NewConfidenceScorer()
	match := &model.MatchResult{
		MatchedEntity: model.StoreEntity{CountryCode: "US"},
	}
	match.AddScoreComponent(model.MEIMatch, 40)

	extracted := &model.ExtractedEntity{CountryCode: "US"}
	s.Score(match, extracted)

	if match.Score != 50 {
		t.Errorf("expected 40 (identifier) + 10 (geographic consistency) = 50, got %v", match.Score)
	}
}

func TestConfidenceScorerDiscrepancyPenaltyCappedAtFifty(t *testing.T) {
	s := NewConfidenceScorer()
	match := &model.MatchResult{MatchedEntity: model.StoreEntity{}}
	match.AddScoreComponent(model.MEIMatch, 40)
	for i := 0; i < 5; i++ {
		match.AddDiscrepancy(model.Discrepancy{Severity: model.SeverityCritical})
	}

	s.Score(match, &model.ExtractedEntity{})

	if match.Score != 0 {
		t.Errorf("expected score clamped to 0 after a capped 50-point penalty, got %v", match.Score)
	}
}

func TestConfidenceScorerMultiIdentifierBonus(t *testing.T) {
	s := NewConfidenceScorer()
	match := &model.MatchResult{MatchedEntity: model.StoreEntity{}}
	match.AddScoreComponent(model.MEIMatch, 40)
	match.AddScoreComponent(model.LEIBoost, 20)

	s.Score(match, &model.ExtractedEntity{})

	// identifier component: 40 + 20 = 60; +10 geographic (no data);
	// +5 for the second identifier axis = 75.
	if match.Score != 75 {
		t.Errorf("expected score 75, got %v", match.Score)
	}
}

func TestConfidenceScorerRecordsGeographicMultiIdentifierAndDuplicateComponents(t *testing.T) {
	s := NewConfidenceScorer()
	match := &model.MatchResult{
		MatchedEntity:       model.StoreEntity{},
		PotentialDuplicates: []model.StoreEntity{{EntityID: 2}},
	}
	match.AddScoreComponent(model.MEIMatch, 40)
	match.AddScoreComponent(model.LEIBoost, 20)

	s.Score(match, &model.ExtractedEntity{})

	if _, ok := match.ScoreComponent(model.GeographicConsistency); !ok {
		t.Error("expected GeographicConsistency component to be recorded")
	}
	if _, ok := match.ScoreComponent(model.MultiIdentifierBonus); !ok {
		t.Error("expected MultiIdentifierBonus component to be recorded")
	}
	if _, ok := match.ScoreComponent(model.DuplicatePenalty); !ok {
		t.Error("expected DuplicatePenalty component to be recorded")
	}
}

func TestConfidenceScorerPotentialDuplicatesPenalty(t *testing.T) {
	s := NewConfidenceScorer()
	match := &model.MatchResult{
		MatchedEntity:       model.StoreEntity{},
		PotentialDuplicates: []model.StoreEntity{{EntityID: 2}},
	}
	match.AddScoreComponent(model.MEIMatch, 40)

	s.Score(match, &model.ExtractedEntity{})

	if match.Score != 45 {
		t.Errorf("expected 40 + 10 (geo) - 5 (duplicate penalty) = 45, got %v", match.Score)
	}
}
