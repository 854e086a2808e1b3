package emaildomain

import "strings"

// corporateDomains maps a large asset manager's corporate email domain to
// the set of name fragments that identify it, for a direct-match score
// boost independent of fuzzy name similarity.
var corporateDomains = map[string][]string{
	"blackrock.com":     {"blackrock", "blackrock inc", "blackrock asset management", "blackrock fund"},
	"vanguard.com":      {"vanguard", "vanguard group", "vanguard investments"},
	"fidelity.com":      {"fidelity", "fidelity investments", "fidelity management", "fmr"},
	"goldmansachs.com":  {"goldman sachs", "gs", "gsam", "goldman sachs asset management"},
	"jpmorgan.com":      {"jp morgan", "jpmorgan", "jpmc", "jp morgan asset management", "jpm"},
	"morganstanley.com": {"morgan stanley", "ms", "morgan stanley investment management", "msim"},
	"ubs.com":           {"ubs", "ubs asset management", "ubs global", "ubs ag"},
	"credit-suisse.com": {"credit suisse", "cs", "credit suisse asset management"},
	"db.com":            {"deutsche bank", "db", "deutsche asset management", "dws"},
	"barclays.com":      {"barclays", "barclays capital", "barclays investment"},
	"citi.com":          {"citigroup", "citi", "citibank", "citigroup global"},
	"hsbc.com":          {"hsbc", "hsbc global", "hsbc asset management"},
	"statestreet.com":   {"state street", "state street global", "ssga"},
	"bnymellon.com":     {"bny mellon", "bank of new york mellon", "bnym"},
	"pimco.com":         {"pimco", "pacific investment management"},
}

// geographicTLDCountry maps a country-code top-level domain to the ISO
// alpha-2 country it indicates. ".com" defaults to US, matching the
// convention used across the rest of the pipeline for US-registered
// entities.
var geographicTLDCountry = map[string]string{
	".uk": "GB", ".ca": "CA", ".de": "DE", ".fr": "FR", ".au": "AU", ".jp": "JP",
	".cn": "CN", ".sg": "SG", ".hk": "HK", ".ch": "CH", ".nl": "NL", ".ie": "IE",
	".lu": "LU", ".com": "US",
}

var financialKeywords = []string{
	"bank", "capital", "asset", "invest", "fund", "wealth", "securities",
	"financial", "equity", "credit", "trading",
}

// ExtractDomainRoot strips the TLD and, when present, one level of
// subdomain from a domain, leaving the registrable name used for
// direct-match comparison (e.g. "mail.blackrock.com" -> "blackrock").
func ExtractDomainRoot(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return ""
	}
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return domain
	}
	// parts[len-1] is the TLD; the registrable label is the one before it.
	return parts[len(parts)-2]
}

// IsFinancialDomain reports whether domain contains a keyword commonly
// found in financial-institution domains.
func IsFinancialDomain(domain string) bool {
	domain = strings.ToLower(domain)
	for _, kw := range financialKeywords {
		if strings.Contains(domain, kw) {
			return true
		}
	}
	return false
}

// GeographicCountryForDomain returns the country implied by domain's
// TLD, or "" if the TLD isn't one of the recognized ccTLDs.
func GeographicCountryForDomain(domain string) string {
	domain = strings.ToLower(domain)
	for tld, country := range geographicTLDCountry {
		if strings.HasSuffix(domain, tld) {
			return country
		}
	}
	return ""
}

// DirectRootMatch reports whether a domain's root label appears in any of
// the candidate name fields, i.e. the entity's own website domain
// literally contains its name.
func DirectRootMatch(domain string, nameFields ...string) bool {
	root := ExtractDomainRoot(domain)
	if root == "" {
		return false
	}
	for _, f := range nameFields {
		if strings.Contains(strings.ToLower(f), root) {
			return true
		}
	}
	return false
}

// CorporateFamilyMatch reports whether domain is a known large-manager
// corporate domain whose name fragments appear in any of nameFields.
func CorporateFamilyMatch(domain string, nameFields ...string) bool {
	fragments, ok := corporateDomains[strings.ToLower(strings.TrimSpace(domain))]
	if !ok {
		return false
	}
	for _, f := range nameFields {
		lf := strings.ToLower(f)
		for _, frag := range fragments {
			if strings.Contains(lf, frag) {
				return true
			}
		}
	}
	return false
}
