// Package emaildomain filters out professional-services email domains
// (law firms, fund administrators, custodians, accountants, generic
// mailboxes) so the remaining contact emails can be used as corroborating
// evidence of which entity actually sent a form, and recognizes a set of
// large asset managers' corporate domains for a direct-match score boost.
package emaildomain

import (
	"regexp"
	"strings"
)

// serviceProviderDomains is a deny-list of domains known to belong to
// intermediaries rather than the entity itself: generic mailboxes, law
// firms, fund administrators, custodians, and accounting firms.
var serviceProviderDomains = map[string]struct{}{
	// generic mailbox providers
	"gmail.com": {}, "yahoo.com": {}, "hotmail.com": {}, "outlook.com": {}, "aol.com": {},
	"icloud.com": {}, "protonmail.com": {}, "mail.com": {}, "gmx.com": {}, "zoho.com": {},
	"live.com": {}, "msn.com": {}, "comcast.net": {}, "verizon.net": {}, "att.net": {},
	"me.com": {},
	// law firms
	"shearman.com": {}, "davispolk.com": {}, "sullcrom.com": {}, "weil.com": {}, "skadden.com": {},
	"lw.com": {}, "kirkland.com": {}, "paulweiss.com": {}, "cooley.com": {}, "wilmerhale.com": {},
	"mayerbrown.com": {}, "whitecase.com": {}, "cliffordchance.com": {}, "linklaters.com": {},
	"allenovery.com": {}, "freshfields.com": {}, "hoganlovells.com": {}, "nortonrosefulbright.com": {},
	"dechert.com": {}, "sidley.com": {}, "morganlewis.com": {}, "jonesday.com": {}, "gibsondunn.com": {},
	"cravath.com": {}, "wachtell.com": {}, "simpson.com": {},
	// fund administrators
	"sscinc.com": {}, "citco.com": {}, "sei.com": {}, "ssctech.com": {}, "apexgroup.com": {},
	"maitlandgroup.com": {}, "ultimusfundsolutions.com": {}, "alter-domus.com": {}, "intertrustgroup.com": {},
	"vistra.com": {}, "jtcgroup.com": {}, "languardgroup.com": {}, "mufg-investor.com": {},
	"usbank.com": {}, "bnymellon.com": {}, "statestreet.com": {},
	// custodians
	"nt.com": {}, "pershing.com": {}, "schwab.com": {}, "fisglobal.com": {}, "brownbrothers.com": {},
	"rbcits.com": {}, "cacbank.com": {}, "jhancock.com": {},
	// accounting firms
	"deloitte.com": {}, "pwc.com": {}, "ey.com": {}, "kpmg.com": {}, "grantthornton.com": {},
	"bdo.com": {}, "rsmus.com": {}, "crowe.com": {}, "mossadams.com": {}, "cbiz.com": {},
	"eisneramper.com": {}, "marcumllp.com": {},
	// generic-indicator domains
	"noreply.com": {}, "donotreply.com": {}, "mailinator.com": {}, "temp-mail.org": {},
	"guerrillamail.com": {}, "yopmail.com": {}, "10minutemail.com": {}, "example.com": {},
	"test.com": {}, "localhost.com": {},
}

// serviceProviderKeywords flags a domain as a service provider when the
// domain string itself contains one of these tokens, independent of the
// deny-list above.
var serviceProviderKeywords = []string{
	"law", "legal", "attorney", "counsel", "llp", "solicitor", "admin", "administrator",
	"custody", "custodian", "trustee", "fiduciary", "accounting", "audit", "tax",
}

var lawFirmPatterns = []*regexp.Regexp{
	regexp.MustCompile(`.*law\.com$`),
	regexp.MustCompile(`.*legal\.com$`),
	regexp.MustCompile(`.*llp\.com$`),
	regexp.MustCompile(`.*attorneys\.com$`),
	regexp.MustCompile(`.*solicitors\..*$`),
	regexp.MustCompile(`.*barristers\..*$`),
}

var ampersandSplit = regexp.MustCompile(`\.|&|and`)

// IsServiceProviderDomain reports whether domain belongs to a known
// intermediary rather than the participant entity itself.
func IsServiceProviderDomain(domain string) bool {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false
	}
	if _, ok := serviceProviderDomains[domain]; ok {
		return true
	}
	for _, kw := range serviceProviderKeywords {
		if strings.Contains(domain, kw) {
			return true
		}
	}
	return isLawFirmDomain(domain)
}

func isLawFirmDomain(domain string) bool {
	for _, pattern := range lawFirmPatterns {
		if pattern.MatchString(domain) {
			return true
		}
	}
	// "smith & jones llp" style domains tend to split into 3+ parts on
	// '.', '&', or the literal word "and".
	parts := ampersandSplit.Split(domain, -1)
	nonEmpty := 0
	for _, p := range parts {
		if p != "" {
			nonEmpty++
		}
	}
	return nonEmpty >= 3 && (strings.Contains(domain, "&") || strings.Contains(domain, "and"))
}

// ExtractDomain returns the lowercased domain portion of an email address.
func ExtractDomain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 || i == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[i+1:])
}

// FilterServiceProviderEmails removes emails whose domain is a known
// service provider, leaving only emails that plausibly belong to the
// entity itself.
func FilterServiceProviderEmails(emails []string) []string {
	filtered := make([]string, 0, len(emails))
	for _, e := range emails {
		if IsServiceProviderDomain(ExtractDomain(e)) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// FindPrimaryEntityDomain returns the most frequently occurring non-
// service-provider domain among emails, or "" if none qualify.
func FindPrimaryEntityDomain(emails []string) string {
	counts := make(map[string]int)
	for _, e := range emails {
		d := ExtractDomain(e)
		if d == "" || IsServiceProviderDomain(d) {
			continue
		}
		counts[d]++
	}

	best := ""
	bestCount := 0
	for d, c := range counts {
		if c > bestCount {
			best = d
			bestCount = c
		}
	}
	return best
}
