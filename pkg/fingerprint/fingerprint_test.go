package fingerprint

import (
	"testing"

	"github.com/fmateoc/entity-matching/pkg/model"
)

func TestFromExtractionStableAcrossFieldOrder(t *testing.T) {
	a := &model.ExtractedEntity{LegalName: "Acme Fund", MEI: "US12345678"}
	b := &model.ExtractedEntity{MEI: "US12345678", LegalName: "Acme Fund"}

	if FromExtraction(a, nil) != FromExtraction(b, nil) {
		t.Error("expected identical fingerprints for equal field values regardless of construction order")
	}
}

func TestFromExtractionChangesWithContent(t *testing.T) {
	a := &model.ExtractedEntity{LegalName: "Acme Fund", MEI: "US12345678"}
	b := &model.ExtractedEntity{LegalName: "Acme Fund", MEI: "US87654321"}

	if !HasChanged(FromExtraction(a, nil), FromExtraction(b, nil)) {
		t.Error("expected fingerprints to differ when the MEI differs")
	}
}

func TestFromExtractionIncludesSecondary(t *testing.T) {
	primary := &model.ExtractedEntity{LegalName: "Acme Fund"}
	secondary := &model.ExtractedEntity{EIN: "12-3456789"}

	withSecondary := FromExtraction(primary, secondary)
	withoutSecondary := FromExtraction(primary, nil)

	if withSecondary == withoutSecondary {
		t.Error("expected the secondary extraction to affect the fingerprint")
	}
}

func TestGenerateWithExclusionsSkipsExcludedField(t *testing.T) {
	data := map[string]any{"a": "1", "b": "2"}
	withB := Generate(data)
	withoutB := GenerateWithExclusions(data, map[string]bool{"b": true})

	if withB == withoutB {
		t.Error("expected excluding a field to change the fingerprint")
	}

	data2 := map[string]any{"a": "1", "b": "anything"}
	if GenerateWithExclusions(data, map[string]bool{"b": true}) != GenerateWithExclusions(data2, map[string]bool{"b": true}) {
		t.Error("expected excluded field's value to have no effect on the fingerprint")
	}
}
