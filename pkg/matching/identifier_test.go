package matching

import (
	"context"
	"testing"

	"github.com/fmateoc/entity-matching/pkg/model"
)

func TestIdentifierMatcherMEI(t *testing.T) {
	store := &fakeStore{entities: []model.StoreEntity{
		{EntityID: 1, FullName: "Acme Fund", MEI: "US12345678", CountryCode: "US"},
	}}
	m := NewIdentifierMatcher(store)

	results, err := m.Match(context.Background(), &model.ExtractedEntity{MEI: "US12345678"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Score != 40 {
		t.Errorf("expected score 40, got %v", results[0].Score)
	}
	if v, ok := results[0].ScoreComponent(model.MEIMatch); !ok || v != 40 {
		t.Errorf("expected MEIMatch component 40, got %v ok=%v", v, ok)
	}
}

func TestIdentifierMatcherCorroboratingLEIBoostsExistingMatch(t *testing.T) {
	store := &fakeStore{entities: []model.StoreEntity{
		{EntityID: 1, FullName: "Acme Fund", MEI: "US12345678", LEI: "529900T8BM49AURSDO55"},
	}}
	m := NewIdentifierMatcher(store)

	results, err := m.Match(context.Background(), &model.ExtractedEntity{
		MEI: "US12345678",
		LEI: "529900T8BM49AURSDO55",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected a single consolidated result, got %d", len(results))
	}
	if results[0].Score != 60 {
		t.Errorf("expected boosted score 60 (40+20), got %v", results[0].Score)
	}
	if _, ok := results[0].ScoreComponent(model.LEIBoost); !ok {
		t.Error("expected LEIBoost component to be recorded")
	}
}

func TestIdentifierMatcherNoIdentifiersYieldsNoResults(t *testing.T) {
	store := &fakeStore{entities: nil}
	m := NewIdentifierMatcher(store)

	results, err := m.Match(context.Background(), &model.ExtractedEntity{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestIdentifierMatcherPropagatesLookupError(t *testing.T) {
	store := &fakeStore{err: errFakeStore}
	m := NewIdentifierMatcher(store)

	_, err := m.Match(context.Background(), &model.ExtractedEntity{MEI: "US12345678"})
	if err == nil {
		t.Fatal("expected an error from a failing store lookup")
	}
}
