package matching

import (
	"context"
	"testing"

	"github.com/fmateoc/entity-matching/pkg/model"
)

func TestProcessorPerfectMEIYieldsMatch(t *testing.T) {
	store := &fakeStore{entities: []model.StoreEntity{
		{EntityID: 1, FullName: "Acme Fund", MEI: "US12345678", CountryCode: "US"},
	}}
	engine := NewEngine(testLogger(), store, DefaultConfig())
	p := NewProcessor(testLogger(), engine)

	primary := &model.ExtractedEntity{LegalName: "Acme Fund", MEI: "US12345678", CountryCode: "US"}
	result := p.Process(context.Background(), primary, nil)

	if result.Decision != model.DecisionMatch {
		t.Errorf("expected MATCH, got %v", result.Decision)
	}
	if result.SelectedMatch == nil || result.SelectedMatch.MatchedEntity.EntityID != 1 {
		t.Fatalf("expected entity 1 selected, got %+v", result.SelectedMatch)
	}
	if len(result.AuditTrail) < 2 {
		t.Errorf("expected at least a start and completion audit entry, got %v", result.AuditTrail)
	}
}

func TestProcessorNoCandidatesYieldsNoMatch(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(testLogger(), store, DefaultConfig())
	p := NewProcessor(testLogger(), engine)

	result := p.Process(context.Background(), &model.ExtractedEntity{}, nil)

	if result.Decision != model.DecisionNoMatch {
		t.Errorf("expected NO_MATCH for an empty candidate list, got %v", result.Decision)
	}
	if result.SelectedMatch != nil {
		t.Errorf("expected no selected match, got %+v", result.SelectedMatch)
	}
}

func TestProcessorCriticalDiscrepancyDowngradesMidBandToManualReview(t *testing.T) {
	store := &fakeStore{entities: []model.StoreEntity{
		{
			EntityID: 1, FullName: "Acme Fund",
			MEI: "US12345678", LEI: "529900T8BM49AURSDO55", DebtDomainID: "ABC123456",
			CountryCode: "US",
		},
	}}
	engine := NewEngine(testLogger(), store, DefaultConfig())
	p := NewProcessor(testLogger(), engine)

	// Three corroborating identifiers, a perfect name match, and
	// consistent geography push the base score comfortably into the
	// 70-85 band. A conflicting EIN on a secondary tax-form extraction
	// then earns a CRITICAL EIN_MISMATCH_CROSS_FORM discrepancy, which
	// must downgrade the decision to MANUAL_REVIEW even though the score
	// alone would otherwise qualify as MATCH.
	primary := &model.ExtractedEntity{
		LegalName: "Acme Fund", MEI: "US12345678", LEI: "529900T8BM49AURSDO55",
		DebtDomainID: "ABC123456", CountryCode: "US", EIN: "12-3456789",
	}
	secondary := &model.ExtractedEntity{LegalName: "Acme Fund", EIN: "98-7654321"}
	result := p.Process(context.Background(), primary, secondary)

	if result.SelectedMatch == nil {
		t.Fatalf("expected a selected match")
	}
	if !result.SelectedMatch.HasCriticalDiscrepancy() {
		t.Fatalf("expected a CRITICAL discrepancy on the selected match, got %+v", result.SelectedMatch.Discrepancies)
	}
	if result.SelectedMatch.Score >= 85 || result.SelectedMatch.Score < 70 {
		t.Fatalf("test setup expected a 70-85 band score, got %v", result.SelectedMatch.Score)
	}
	if result.Decision != model.DecisionManualReview {
		t.Errorf("expected MANUAL_REVIEW, got %v (score %v)", result.Decision, result.SelectedMatch.Score)
	}
}

func TestProcessorIdentifierMismatchOnNameMatchedCandidateYieldsNoMatch(t *testing.T) {
	store := &fakeStore{entities: []model.StoreEntity{
		{EntityID: 1, FullName: "Acme Fund", MEI: "US87654321"},
	}}
	engine := NewEngine(testLogger(), store, DefaultConfig())
	p := NewProcessor(testLogger(), engine)

	primary := &model.ExtractedEntity{LegalName: "Acme Fund", MEI: "US12345678"}
	result := p.Process(context.Background(), primary, nil)

	if result.SelectedMatch == nil {
		t.Fatalf("expected a selected match found by name despite the MEI mismatch")
	}
	if !result.SelectedMatch.HasCriticalDiscrepancy() {
		t.Fatalf("expected a CRITICAL MEI_MISMATCH discrepancy, got %+v", result.SelectedMatch.Discrepancies)
	}
	foundMEIMismatch := false
	for _, d := range result.SelectedMatch.Discrepancies {
		if d.Type == model.TypeMEIMismatch && d.Severity == model.SeverityCritical {
			foundMEIMismatch = true
		}
	}
	if !foundMEIMismatch {
		t.Errorf("expected a CRITICAL MEI_MISMATCH discrepancy, got %+v", result.SelectedMatch.Discrepancies)
	}
	if result.SelectedMatch.Score >= 50 {
		t.Errorf("expected the -25 mismatch penalty to push the score below the MANUAL_REVIEW floor, got %v", result.SelectedMatch.Score)
	}
	if result.Decision != model.DecisionNoMatch {
		t.Errorf("expected NO_MATCH, got %v (score %v)", result.Decision, result.SelectedMatch.Score)
	}
}

func TestProcessorCompositeManagedFundNormalizesFundManagerAndMatches(t *testing.T) {
	store := &fakeStore{entities: []model.StoreEntity{
		{EntityID: 1, FullName: "ABC Pension Plan", FundManagerName: "GSAM"},
	}}
	engine := NewEngine(testLogger(), store, DefaultConfig())
	p := NewProcessor(testLogger(), engine)

	primary := &model.ExtractedEntity{
		LegalName:    "ABC Pension Plan",
		FundManager:  "Goldman Sachs Asset Management",
		InferredType: model.EntityTypeManagedFund,
	}
	result := p.Process(context.Background(), primary, nil)

	if result.SelectedMatch == nil || result.SelectedMatch.MatchedEntity.EntityID != 1 {
		t.Fatalf("expected entity 1 selected, got %+v", result.SelectedMatch)
	}
	if result.SelectedMatch.Score < 85 {
		t.Errorf("expected score >= 85 once GSAM normalizes to the full fund-manager name, got %v", result.SelectedMatch.Score)
	}
	if result.Decision != model.DecisionMatch {
		t.Errorf("expected MATCH, got %v (score %v)", result.Decision, result.SelectedMatch.Score)
	}
}

func TestProcessorStoreDuplicateShortNamesSurfaceOnSelectedMatch(t *testing.T) {
	store := &fakeStore{entities: []model.StoreEntity{
		{EntityID: 1, FullName: "Acme Corp", ShortName: "ACME"},
		{EntityID: 2, FullName: "Acme Corporation", ShortName: "ACME."},
	}}
	engine := NewEngine(testLogger(), store, DefaultConfig())
	p := NewProcessor(testLogger(), engine)

	primary := &model.ExtractedEntity{LegalName: "Acme Corp"}
	result := p.Process(context.Background(), primary, nil)

	if result.SelectedMatch == nil {
		t.Fatalf("expected a selected match")
	}
	if len(result.SelectedMatch.PotentialDuplicates) == 0 {
		t.Fatalf("expected the other short-name match to surface as a potential duplicate, got %+v", result.SelectedMatch)
	}
	foundDuplicateDiscrepancy := false
	for _, d := range result.SelectedMatch.Discrepancies {
		if d.Type == model.TypePotentialDuplicateShortName {
			foundDuplicateDiscrepancy = true
		}
	}
	if !foundDuplicateDiscrepancy {
		t.Errorf("expected a POTENTIAL_DUPLICATE_SHORT_NAME discrepancy, got %+v", result.SelectedMatch.Discrepancies)
	}
}
