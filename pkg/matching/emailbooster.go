package matching

import (
	"github.com/fmateoc/entity-matching/pkg/country"
	"github.com/fmateoc/entity-matching/pkg/emaildomain"
	"github.com/fmateoc/entity-matching/pkg/model"
)

// EmailDomainBooster enhances an already-found match with corroborating
// or contradicting evidence from the extraction's contact email domain.
// It never introduces a new match on its own; it only adjusts one that
// the identifier or fuzzy-name stages already produced.
type EmailDomainBooster struct{}

// NewEmailDomainBooster constructs an EmailDomainBooster.
func NewEmailDomainBooster() *EmailDomainBooster {
	return &EmailDomainBooster{}
}

// Enhance folds an email-domain-derived boost into match, clamping the
// resulting score to 100.
func (b *EmailDomainBooster) Enhance(match *model.MatchResult, emailDomain string) {
	if emailDomain == "" {
		return
	}

	boost := b.calculateDomainBoost(emailDomain, match.MatchedEntity)
	if boost <= 0 {
		return
	}

	match.Score = min(100, match.Score+boost)
	match.AddScoreComponent(model.EmailDomainBoost, boost)
}

// calculateDomainBoost mirrors the original matcher's two-path design:
// a direct domain-root or corporate-family match short-circuits with its
// own flat boost, while weaker geographic and financial-keyword signals
// accumulate when neither strong signal fires.
func (b *EmailDomainBooster) calculateDomainBoost(emailDomain string, entity model.StoreEntity) float64 {
	nameFields := []string{entity.FullName, entity.FundManagerName}

	if emaildomain.DirectRootMatch(emailDomain, nameFields...) {
		return 20
	}
	if emaildomain.CorporateFamilyMatch(emailDomain, nameFields...) {
		return 15
	}

	var boost float64
	if geo := emaildomain.GeographicCountryForDomain(emailDomain); geo != "" {
		if country.IsGeographicMatch(geo, entity.CountryCode) {
			boost += 5
		}
	}
	if emaildomain.IsFinancialDomain(emailDomain) && isFinancialEntity(entity) {
		boost += 3
	}

	return boost
}

// isFinancialEntity reuses the domain financial-keyword heuristic against
// the entity's own name fields, matching the original matcher's
// (slightly odd) choice to run the same keyword check on both sides.
func isFinancialEntity(entity model.StoreEntity) bool {
	return emaildomain.IsFinancialDomain(entity.FullName) || emaildomain.IsFinancialDomain(entity.FundManagerName)
}
