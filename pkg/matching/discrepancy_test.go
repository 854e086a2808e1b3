package matching

import (
	"context"
	"testing"

	"github.com/fmateoc/entity-matching/pkg/model"
)

func TestDiscrepancyDetectorMEIMismatch(t *testing.T) {
	store := &fakeStore{entities: []model.StoreEntity{
		{EntityID: 1, FullName: "Acme Lending Corp", MEI: "US12345678"},
	}}
	d := NewDiscrepancyDetector(store)

	primary := &model.ExtractedEntity{MEI: "US87654321"}
	discrepancies, err := d.Detect(context.Background(), primary, nil, store.entities[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var found bool
	for _, disc := range discrepancies {
		if disc.Type == model.TypeMEIMismatch && disc.Severity == model.SeverityCritical {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a CRITICAL MEI_MISMATCH discrepancy, got %+v", discrepancies)
	}
}

func TestDiscrepancyDetectorCrossFormEINMismatch(t *testing.T) {
	store := &fakeStore{}
	d := NewDiscrepancyDetector(store)

	primary := &model.ExtractedEntity{EIN: "12-3456789"}
	secondary := &model.ExtractedEntity{EIN: "98-7654321"}
	discrepancies, err := d.Detect(context.Background(), primary, secondary, model.StoreEntity{EntityID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var found bool
	for _, disc := range discrepancies {
		if disc.Type == model.TypeEINMismatchCrossForm {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an EIN_MISMATCH_CROSS_FORM discrepancy, got %+v", discrepancies)
	}
}

func TestDiscrepancyDetectorOrphanedLocation(t *testing.T) {
	store := &fakeStore{}
	d := NewDiscrepancyDetector(store)

	matched := model.StoreEntity{EntityID: 5, IsLocation: true, ParentCustomerID: 0}
	discrepancies, err := d.Detect(context.Background(), &model.ExtractedEntity{}, nil, matched)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var found bool
	for _, disc := range discrepancies {
		if disc.Type == model.TypeOrphanedLocationRecord {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an ORPHANED_LOCATION_RECORD discrepancy, got %+v", discrepancies)
	}
}

func TestDiscrepancyDetectorNoDiscrepanciesWhenConsistent(t *testing.T) {
	store := &fakeStore{entities: []model.StoreEntity{
		{EntityID: 1, FullName: "Acme Lending Corp", MEI: "US12345678", CountryCode: "US"},
	}}
	d := NewDiscrepancyDetector(store)

	primary := &model.ExtractedEntity{MEI: "US12345678", CountryCode: "US"}
	discrepancies, err := d.Detect(context.Background(), primary, nil, store.entities[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(discrepancies) != 0 {
		t.Errorf("expected no discrepancies, got %+v", discrepancies)
	}
}

func TestCleanedShortNameLowercasesBeforeStripping(t *testing.T) {
	got := cleanedShortName("ABC Corp")
	want := "abccorp"
	if got != want {
		t.Fatalf("cleanedShortName(%q) = %q, want %q", "ABC Corp", got, want)
	}
}

func TestCleanedShortNameMatchesAcrossCase(t *testing.T) {
	if cleanedShortName("ACME Corp.") != cleanedShortName("acme corp") {
		t.Fatalf("expected case-insensitive equality, got %q vs %q",
			cleanedShortName("ACME Corp."), cleanedShortName("acme corp"))
	}
}
