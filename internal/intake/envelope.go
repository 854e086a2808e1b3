// Package intake wires Kafka to the matching worker pool: a consumer
// turns intake envelopes into batch.Record values, and a producer
// publishes the resulting ProcessingResultEvent once each record
// finishes.
package intake

import (
	"time"

	"github.com/fmateoc/entity-matching/pkg/model"
)

// extractionPayload is the wire shape of one extraction inside an intake
// envelope. Field names mirror model.ExtractedEntity; this package owns
// its own JSON-tagged copy rather than tagging the domain type, so the
// wire format can evolve independently of the in-process struct.
type extractionPayload struct {
	LegalName       string             `json:"legal_name"`
	FundManager     string             `json:"fund_manager,omitempty"`
	MEI             string             `json:"mei,omitempty"`
	LEI             string             `json:"lei,omitempty"`
	EIN             string             `json:"ein,omitempty"`
	DebtDomainID    string             `json:"debt_domain_id,omitempty"`
	EmailDomain     string             `json:"email_domain,omitempty"`
	DBA             string             `json:"dba,omitempty"`
	CountryCode     string             `json:"country_code,omitempty"`
	TaxCountryCode  string             `json:"tax_country_code,omitempty"`
	RawFields       map[string]string  `json:"raw_fields,omitempty"`
	ContactEmails   []string           `json:"contact_emails,omitempty"`
	InferredType    string             `json:"inferred_type,omitempty"`
	ExtractionConf  float64            `json:"extraction_confidence,omitempty"`
	FieldConfidence map[string]float64 `json:"field_confidence,omitempty"`
}

func (p *extractionPayload) toEntity() *model.ExtractedEntity {
	if p == nil {
		return nil
	}
	return &model.ExtractedEntity{
		LegalName:       p.LegalName,
		FundManager:     p.FundManager,
		MEI:             p.MEI,
		LEI:             p.LEI,
		EIN:             p.EIN,
		DebtDomainID:    p.DebtDomainID,
		EmailDomain:     p.EmailDomain,
		DBA:             p.DBA,
		CountryCode:     p.CountryCode,
		TaxCountryCode:  p.TaxCountryCode,
		RawFields:       p.RawFields,
		ContactEmails:   p.ContactEmails,
		InferredType:    model.EntityType(p.InferredType),
		ExtractionConf:  p.ExtractionConf,
		FieldConfidence: p.FieldConfidence,
	}
}

// recordEnvelope is the JSON body of an intake message: a record ID, the
// tenant it belongs to, the primary extraction, and an optional secondary
// (tax-form) extraction captured for cross-source corroboration.
type recordEnvelope struct {
	RecordID             string             `json:"record_id"`
	Tenant               string             `json:"tenant"`
	PrimaryExtraction    extractionPayload  `json:"primary_extraction"`
	SecondaryExtraction  *extractionPayload `json:"secondary_extraction,omitempty"`
	ReceivedAt           time.Time          `json:"received_at"`
}

// resultEvent is the JSON body published for one completed record.
type resultEvent struct {
	RecordID           string                `json:"record_id"`
	Tenant             string                `json:"tenant"`
	Decision           model.Decision        `json:"decision"`
	Score              float64               `json:"score,omitempty"`
	SelectedEntityID   int64                 `json:"selected_entity_id,omitempty"`
	DiscrepancySummary []discrepancySummary  `json:"discrepancy_summary,omitempty"`
	ProcessingTimeMs   int64                 `json:"processing_time_ms"`
	ProcessedAt        time.Time             `json:"processed_at"`
}

type discrepancySummary struct {
	Type     model.DiscrepancyType     `json:"type"`
	Severity model.DiscrepancySeverity `json:"severity"`
	Axis     model.DiscrepancyAxis     `json:"axis"`
}

func newResultEvent(tenant string, result model.ProcessingResult) resultEvent {
	ev := resultEvent{
		RecordID:         recordIDFromMetadata(result),
		Tenant:           tenant,
		Decision:         result.Decision,
		ProcessingTimeMs: result.ProcessingTime.Milliseconds(),
		ProcessedAt:      result.ProcessedAt,
	}

	if result.SelectedMatch != nil {
		ev.Score = result.SelectedMatch.Score
		ev.SelectedEntityID = result.SelectedMatch.MatchedEntity.EntityID
		for _, d := range result.SelectedMatch.Discrepancies {
			ev.DiscrepancySummary = append(ev.DiscrepancySummary, discrepancySummary{
				Type:     d.Type,
				Severity: d.Severity,
				Axis:     d.Axis,
			})
		}
	}

	return ev
}

func recordIDFromMetadata(result model.ProcessingResult) string {
	if v, ok := result.Metadata["record_id"].(string); ok {
		return v
	}
	return ""
}
