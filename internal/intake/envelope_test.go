package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmateoc/entity-matching/pkg/model"
)

func TestExtractionPayloadToEntityNilReceiverIsNilEntity(t *testing.T) {
	var p *extractionPayload
	assert.Nil(t, p.toEntity())
}

func TestExtractionPayloadToEntityCopiesFields(t *testing.T) {
	p := &extractionPayload{
		LegalName:   "Acme Fund",
		FundManager: "Acme Capital",
		MEI:         "US12345678",
		RawFields:   map[string]string{"raw_legal_name": "ACME FUND LP"},
	}

	entity := p.toEntity()
	require.NotNil(t, entity)
	assert.Equal(t, p.LegalName, entity.LegalName)
	assert.Equal(t, p.FundManager, entity.FundManager)
	assert.Equal(t, p.MEI, entity.MEI)
	assert.Equal(t, "ACME FUND LP", entity.RawFields["raw_legal_name"])
}

func TestNewResultEventWithSelectedMatch(t *testing.T) {
	result := model.ProcessingResult{
		Decision:       model.DecisionMatch,
		ProcessedAt:    time.Unix(1700000000, 0),
		ProcessingTime: 250 * time.Millisecond,
		Metadata:       map[string]any{"record_id": "rec-123"},
		SelectedMatch: &model.MatchResult{
			Score:         92.5,
			MatchedEntity: model.StoreEntity{EntityID: 7},
			Discrepancies: []model.Discrepancy{
				{Type: model.TypeCountryMismatchFormStore, Severity: model.SeverityMedium, Axis: model.AxisGeographic},
			},
		},
	}

	ev := newResultEvent("tenant-a", result)

	assert.Equal(t, "rec-123", ev.RecordID)
	assert.Equal(t, "tenant-a", ev.Tenant)
	assert.EqualValues(t, 7, ev.SelectedEntityID)
	require.Len(t, ev.DiscrepancySummary, 1)
	assert.Equal(t, model.TypeCountryMismatchFormStore, ev.DiscrepancySummary[0].Type)
}

func TestNewResultEventWithoutSelectedMatch(t *testing.T) {
	result := model.ProcessingResult{
		Decision: model.DecisionNoMatch,
		Metadata: map[string]any{"record_id": "rec-456"},
	}

	ev := newResultEvent("tenant-b", result)

	assert.Zero(t, ev.SelectedEntityID)
	assert.Zero(t, ev.Score)
	assert.Empty(t, ev.DiscrepancySummary)
}
