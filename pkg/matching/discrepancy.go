package matching

import (
	"context"
	"strings"

	"github.com/fmateoc/entity-matching/pkg/country"
	"github.com/fmateoc/entity-matching/pkg/model"
	"github.com/fmateoc/entity-matching/pkg/store"
)

// DiscrepancyDetector produces Discrepancy values across every axis —
// identifier, geographic, name, cross-source, and internal consistency.
// It is not the only producer: FuzzyNameMatcher also records an
// ENTITY_TYPE_MISMATCH discrepancy while scoring a candidate.
type DiscrepancyDetector struct {
	store  store.RecordStore
	scorer *Scorer
}

// NewDiscrepancyDetector constructs a DiscrepancyDetector against store.
func NewDiscrepancyDetector(recordStore store.RecordStore) *DiscrepancyDetector {
	return &DiscrepancyDetector{store: recordStore, scorer: NewScorer()}
}

// Detect runs every sub-detector for a primary extraction, optional
// secondary extraction, and the candidate entity a match was found
// against.
func (d *DiscrepancyDetector) Detect(ctx context.Context, primary, secondary *model.ExtractedEntity, matched model.StoreEntity) ([]model.Discrepancy, error) {
	var discrepancies []model.Discrepancy

	discrepancies = append(discrepancies, d.detectIdentifierDiscrepancies(primary, matched)...)
	discrepancies = append(discrepancies, d.detectGeographicDiscrepancies(primary, secondary, matched)...)
	discrepancies = append(discrepancies, d.detectNameDiscrepancies(primary, matched)...)
	if secondary != nil {
		discrepancies = append(discrepancies, d.detectCrossSourceDiscrepancies(primary, secondary)...)
	}

	internal, err := d.detectInternalInconsistencies(ctx, matched)
	if err != nil {
		return nil, err
	}
	discrepancies = append(discrepancies, internal...)

	return discrepancies, nil
}

func (d *DiscrepancyDetector) detectIdentifierDiscrepancies(extracted *model.ExtractedEntity, matched model.StoreEntity) []model.Discrepancy {
	var out []model.Discrepancy

	if extracted.MEI != "" && matched.MEI != "" && extracted.MEI != matched.MEI {
		out = append(out, model.Discrepancy{
			Type: model.TypeMEIMismatch, Severity: model.SeverityCritical, Axis: model.AxisIdentifier,
			Description: "MEI does not match between form and LoanIQ",
			Detail:      model.IdentifierMismatchDetail{FormValue: extracted.MEI, StoreValue: matched.MEI},
		})
	} else if extracted.MEI != "" && matched.MEI == "" {
		out = append(out, model.Discrepancy{
			Type: model.TypeMEIMissingStore, Severity: model.SeverityHigh, Axis: model.AxisIdentifier,
			Description: "Form has MEI but LoanIQ record does not",
			Detail:      model.IdentifierMismatchDetail{FormValue: extracted.MEI},
		})
	}

	if extracted.LEI != "" && matched.LEI != "" && extracted.LEI != matched.LEI {
		out = append(out, model.Discrepancy{
			Type: model.TypeLEIMismatch, Severity: model.SeverityHigh, Axis: model.AxisIdentifier,
			Description: "LEI does not match between form and LoanIQ",
			Detail:      model.IdentifierMismatchDetail{FormValue: extracted.LEI, StoreValue: matched.LEI},
		})
	}

	if extracted.EIN != "" && matched.EIN != "" && stripHyphens(extracted.EIN) != stripHyphens(matched.EIN) {
		out = append(out, model.Discrepancy{
			Type: model.TypeEINMismatch, Severity: model.SeverityHigh, Axis: model.AxisIdentifier,
			Description: "EIN does not match between form and LoanIQ",
			Detail:      model.IdentifierMismatchDetail{FormValue: extracted.EIN, StoreValue: matched.EIN},
		})
	}

	if extracted.DebtDomainID != "" && matched.DebtDomainID != "" && extracted.DebtDomainID != matched.DebtDomainID {
		out = append(out, model.Discrepancy{
			Type: model.TypeDebtDomainIDMismatch, Severity: model.SeverityMedium, Axis: model.AxisIdentifier,
			Description: "Debt Domain ID does not match between form and LoanIQ",
			Detail:      model.IdentifierMismatchDetail{FormValue: extracted.DebtDomainID, StoreValue: matched.DebtDomainID},
		})
	}

	return out
}

func (d *DiscrepancyDetector) detectGeographicDiscrepancies(primary, secondary *model.ExtractedEntity, matched model.StoreEntity) []model.Discrepancy {
	var out []model.Discrepancy

	if primary.MEI != "" && len(primary.MEI) >= 2 && primary.CountryCode != "" {
		meiCountry := primary.MEI[:2]
		if !country.IsGeographicMatch(meiCountry, primary.CountryCode) {
			out = append(out, model.Discrepancy{
				Type: model.TypeCountryMismatchMEIAddress, Severity: model.SeverityMedium, Axis: model.AxisGeographic,
				Description: "MEI country prefix does not match extracted address country",
				Detail:      model.CountryMismatchMEIAddressDetail{MEICountry: meiCountry, AddressCountry: primary.CountryCode},
			})
		}
	}

	if primary.CountryCode != "" && matched.CountryCode != "" && country.Normalize(primary.CountryCode) != country.Normalize(matched.CountryCode) {
		out = append(out, model.Discrepancy{
			Type: model.TypeCountryMismatchFormStore, Severity: model.SeverityMedium, Axis: model.AxisGeographic,
			Description: "Extracted country does not match LoanIQ country",
			Detail:      model.CountryMismatchFormStoreDetail{FormCountry: primary.CountryCode, StoreCountry: matched.CountryCode},
		})
	}

	for _, e := range []*model.ExtractedEntity{primary, secondary} {
		if e != nil && e.TaxCountryCode != "" && e.CountryCode != "" &&
			country.Normalize(e.TaxCountryCode) != country.Normalize(e.CountryCode) {
			out = append(out, model.Discrepancy{
				Type: model.TypeCountryMismatchTaxLegal, Severity: model.SeverityLow, Axis: model.AxisGeographic,
				Description: "Tax country does not match legal address country on the same form",
				Detail:      model.CountryMismatchTaxLegalDetail{TaxCountry: e.TaxCountryCode, LegalCountry: e.CountryCode},
			})
		}
	}

	return out
}

func (d *DiscrepancyDetector) detectNameDiscrepancies(extracted *model.ExtractedEntity, matched model.StoreEntity) []model.Discrepancy {
	var out []model.Discrepancy

	if extracted.DBA != "" && !strings.Contains(strings.ToUpper(matched.FullName), "DBA") && !strings.Contains(strings.ToUpper(matched.FullName), "D/B/A") {
		out = append(out, model.Discrepancy{
			Type: model.TypeDBANotInStore, Severity: model.SeverityLow, Axis: model.AxisName,
			Description: "Form DBA name is not reflected in LoanIQ",
			Detail:      model.DBANotInStoreDetail{FormDBA: extracted.DBA},
		})
	}

	switch {
	case extracted.FundManager != "" && matched.FundManagerName != "":
		sim := d.scorer.JaroWinkler(extracted.FundManager, matched.FundManagerName)
		if sim < 0.7 {
			out = append(out, model.Discrepancy{
				Type: model.TypeFundManagerMismatch, Severity: model.SeverityMedium, Axis: model.AxisName,
				Description: "Fund manager name does not match LoanIQ",
				Detail:      model.FundManagerMismatchDetail{FormManager: extracted.FundManager, StoreManager: matched.FundManagerName, Similarity: sim},
			})
		}
	case extracted.FundManager != "" && matched.FundManagerName == "":
		out = append(out, model.Discrepancy{
			Type: model.TypeFundManagerMissingStore, Severity: model.SeverityMedium, Axis: model.AxisName,
			Description: "Form reports a fund manager not present on the LoanIQ record",
			Detail:      model.FundManagerMissingStoreDetail{FormManager: extracted.FundManager},
		})
	case extracted.FundManager == "" && matched.FundManagerName != "":
		out = append(out, model.Discrepancy{
			Type: model.TypeUnexpectedFundManager, Severity: model.SeverityMedium, Axis: model.AxisName,
			Description: "LoanIQ record has a fund manager the form does not report",
			Detail:      model.UnexpectedFundManagerDetail{StoreManager: matched.FundManagerName},
		})
	}

	return out
}

func (d *DiscrepancyDetector) detectCrossSourceDiscrepancies(primary, secondary *model.ExtractedEntity) []model.Discrepancy {
	var out []model.Discrepancy

	if primary.EIN != "" && secondary.EIN != "" && stripHyphens(primary.EIN) != stripHyphens(secondary.EIN) {
		out = append(out, model.Discrepancy{
			Type: model.TypeEINMismatchCrossForm, Severity: model.SeverityCritical, Axis: model.AxisCrossSource,
			Description: "EIN disagrees between the two extractions",
			Detail:      model.CrossFormEINMismatchDetail{PrimaryEIN: primary.EIN, SecondaryEIN: secondary.EIN},
		})
	}

	if primary.LegalName != "" && secondary.LegalName != "" {
		sim := d.scorer.JaroWinkler(primary.LegalName, secondary.LegalName)
		if sim < 0.85 {
			out = append(out, model.Discrepancy{
				Type: model.TypeLegalNameMismatchCrossForm, Severity: model.SeverityHigh, Axis: model.AxisCrossSource,
				Description: "Legal name disagrees between the two extractions",
				Detail:      model.CrossFormNameMismatchDetail{PrimaryName: primary.LegalName, SecondaryName: secondary.LegalName, Similarity: sim},
			})
		}
	}

	if primary.CountryCode != "" && secondary.CountryCode != "" && country.Normalize(primary.CountryCode) != country.Normalize(secondary.CountryCode) {
		out = append(out, model.Discrepancy{
			Type: model.TypeCountryMismatchCrossForm, Severity: model.SeverityMedium, Axis: model.AxisCrossSource,
			Description: "Country disagrees between the two extractions",
			Detail:      model.CrossFormCountryMismatchDetail{PrimaryCountry: primary.CountryCode, SecondaryCountry: secondary.CountryCode},
		})
	}

	if primary.MEI != "" && secondary.MEI != "" && primary.MEI != secondary.MEI {
		out = append(out, model.Discrepancy{
			Type: model.TypeMEIMismatchCrossForm, Severity: model.SeverityCritical, Axis: model.AxisCrossSource,
			Description: "MEI disagrees between the two extractions",
			Detail:      model.CrossFormMEIMismatchDetail{PrimaryMEI: primary.MEI, SecondaryMEI: secondary.MEI},
		})
	}

	return out
}

func (d *DiscrepancyDetector) detectInternalInconsistencies(ctx context.Context, matched model.StoreEntity) ([]model.Discrepancy, error) {
	var out []model.Discrepancy

	if matched.ShortName != "" {
		cleaned := cleanedShortName(matched.ShortName)
		similar, err := d.store.FindByCleanedShortName(ctx, cleaned)
		if err != nil {
			return nil, err
		}
		if len(similar) > 1 {
			out = append(out, model.Discrepancy{
				Type: model.TypePotentialDuplicateShortName, Severity: model.SeverityLow, Axis: model.AxisInternal,
				Description: "Multiple LoanIQ records share the same cleaned short name",
				Detail:      model.PotentialDuplicateDetail{ShortName: matched.ShortName, SimilarCount: len(similar)},
			})
		}
	}

	if matched.IsLocation && matched.ParentCustomerID == 0 {
		out = append(out, model.Discrepancy{
			Type: model.TypeOrphanedLocationRecord, Severity: model.SeverityMedium, Axis: model.AxisInternal,
			Description: "Location sub-entity has no parent customer record",
			Detail:      model.OrphanedLocationDetail{EntityID: matched.EntityID},
		})
	}

	if matched.MEI != "" && len(matched.MEI) >= 2 && matched.CountryCode != "" {
		meiCountry := matched.MEI[:2]
		if !country.IsGeographicMatch(meiCountry, matched.CountryCode) {
			out = append(out, model.Discrepancy{
				Type: model.TypeInternalCountryMismatch, Severity: model.SeverityMedium, Axis: model.AxisInternal,
				Description: "LoanIQ MEI country prefix does not match LoanIQ stored country",
				Detail:      model.InternalCountryMismatchDetail{MEICountry: meiCountry, StoredCountry: matched.CountryCode},
			})
		}
	}

	return out, nil
}

func stripHyphens(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

func cleanedShortName(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
