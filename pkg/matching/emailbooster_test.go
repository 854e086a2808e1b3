package matching

import (
	"testing"

	"github.com/fmateoc/entity-matching/pkg/model"
)

func TestEmailDomainBoosterDirectRootMatch(t *testing.T) {
	b := NewEmailDomainBooster()
	match := &model.MatchResult{
		MatchedEntity: model.StoreEntity{FullName: "Acme Lending Corp"},
		Score:         60,
	}

	b.Enhance(match, "acme.com")

	if match.Score != 80 {
		t.Errorf("expected score boosted to 80, got %v", match.Score)
	}
	if v, ok := match.ScoreComponent(model.EmailDomainBoost); !ok || v != 20 {
		t.Errorf("expected EmailDomainBoost of 20, got %v ok=%v", v, ok)
	}
}

func TestEmailDomainBoosterClampsToHundred(t *testing.T) {
	b := NewEmailDomainBooster()
	match := &model.MatchResult{
		MatchedEntity: model.StoreEntity{FullName: "Acme Lending Corp"},
		Score:         95,
	}

	b.Enhance(match, "acme.com")

	if match.Score != 100 {
		t.Errorf("expected score clamped to 100, got %v", match.Score)
	}
}

func TestEmailDomainBoosterNoSignalLeavesScoreUnchanged(t *testing.T) {
	b := NewEmailDomainBooster()
	match := &model.MatchResult{
		MatchedEntity: model.StoreEntity{FullName: "Widget Holdings"},
		Score:         60,
	}

	b.Enhance(match, "somerandomdomain.net")

	if match.Score != 60 {
		t.Errorf("expected score unchanged, got %v", match.Score)
	}
}
