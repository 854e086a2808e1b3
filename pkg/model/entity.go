// Package model holds the core domain types shared across the matching
// pipeline: the entities being reconciled, the results of reconciling
// them, and the discrepancies and scores produced along the way.
package model

// EntityType classifies an extracted entity by how it trades.
type EntityType string

const (
	EntityTypeManagedFund EntityType = "MANAGED_FUND"
	EntityTypeStandalone  EntityType = "STANDALONE"
	EntityTypeUnknown     EntityType = "UNKNOWN"
)

// ExtractedEntity is a record pulled from an external trading-participant
// form (an ADF or a tax form) before it has been reconciled against the
// system of record. Any field may be empty; extraction is best-effort.
type ExtractedEntity struct {
	LegalName    string
	FundManager  string
	MEI          string
	LEI          string
	EIN          string
	DebtDomainID string
	EmailDomain  string
	DBA          string
	CountryCode  string
	// TaxCountryCode is the country reported on a tax form, which may
	// legitimately differ from the legal address country on the same form.
	TaxCountryCode string

	RawFields       map[string]string
	ContactEmails   []string
	InferredType    EntityType
	ExtractionConf  float64
	FieldConfidence map[string]float64
}

// IsComposite reports whether this entity carries a fund-manager component
// that must be matched alongside the legal name.
func (e *ExtractedEntity) IsComposite() bool {
	return e != nil && e.FundManager != ""
}

// StoreEntity is a curated record from the system of record.
type StoreEntity struct {
	EntityID        int64
	FullName        string
	ShortName       string
	FundManagerName string // repurposed ultimate-parent field on managed funds
	MEI             string
	LEI             string
	EIN             string
	DebtDomainID    string
	CountryCode     string
	LegalAddress    string
	TaxAddress      string
	IsLocation      bool
	ParentCustomerID int64
}
