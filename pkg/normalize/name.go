// Package normalize turns free-text legal entity and fund-manager names
// from extracted forms into a canonical form suitable for fuzzy
// comparison: diacritics folded, case flattened, corporate-form suffixes
// and common abbreviations expanded or stripped, articles and
// prepositions removed, whitespace collapsed.
package normalize

import (
	"regexp"
	"strings"
)

// corporateForms is the set of legal-form tokens stripped from a name
// once abbreviations have been expanded. Spanning US, international, and
// investment-specific forms; order within the set does not matter since
// the compiled pattern matches any member.
var corporateForms = []string{
	"inc", "incorporated", "corp", "corporation", "llc", "llp", "lp", "ltd", "limited",
	"co", "company", "holding", "holdings", "enterprises", "ent", "industries", "ind",
	"plc", "sa", "ag", "gmbh", "bv", "nv", "spa", "srl", "sarl", "ab", "as", "oy", "pty",
	"pte", "bhd", "sdn", "tbk", "pt", "kk", "kg", "kft", "sp zoo", "doo", "ad", "ead",
	"ooo", "zao", "ltda", "cv", "sas", "scs", "snc", "kgaa", "gmbh co kg",
	"fund", "funds", "trust", "reit", "sicav", "sicaf", "fcp", "partners", "partnership",
	"investments", "capital", "ventures", "equity", "credit", "asset", "management",
	"advisors", "advisers",
}

var corporateFormsPattern = regexp.MustCompile(
	`\b(` + strings.Join(escapeAll(corporateForms), "|") + `)\b`,
)

// abbreviations expands shorthand tokens commonly found on forms before
// corporate-form stripping runs, so "Intl Mgmt Corp" and "International
// Management Corporation" normalize identically.
var abbreviations = map[string]string{
	"intl":  "international",
	"natl":  "national",
	"mgmt":  "management",
	"invt":  "investment",
	"svcs":  "services",
	"svc":   "service",
	"tech":  "technology",
	"assoc": "associates",
	"bros":  "brothers",
	"dept":  "department",
	"div":   "division",
	"govt":  "government",
	"univ":  "university",
	"mfg":   "manufacturing",
	"ins":   "insurance",
	"fin":   "financial",
	"grp":   "group",
	"sys":   "systems",
	"amer":  "american",
	"euro":  "european",
	"asia":  "asian",
	"pac":   "pacific",
	"atl":   "atlantic",
}

var stopwordsPattern = regexp.MustCompile(`\b(the|a|an|and|of|in|for|by|with|from)\b`)

var nonWordPattern = regexp.MustCompile(`[^a-z0-9\s\-']`)

type abbreviationRule struct {
	pattern    *regexp.Regexp
	expansion  string
}

var abbreviationRules = buildAbbreviationRules(abbreviations)

func buildAbbreviationRules(m map[string]string) []abbreviationRule {
	rules := make([]abbreviationRule, 0, len(m))
	for k, v := range m {
		rules = append(rules, abbreviationRule{
			pattern:   regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`),
			expansion: v,
		})
	}
	return rules
}

// Name normalizes a legal entity name for fuzzy comparison: fold
// diacritics, lowercase, drop characters outside [a-z0-9\s-'], expand
// abbreviations, strip corporate-form tokens, remove stopword articles
// and prepositions wherever they occur, and collapse whitespace. The
// ordering matters: abbreviations are expanded before corporate forms are
// stripped so an abbreviated form token (e.g. "mgmt", expanded to
// "management") is still stripped after expansion.
func Name(name string) string {
	if name == "" {
		return ""
	}
	s := FoldDiacritics(name)
	s = strings.ToLower(s)
	s = nonWordPattern.ReplaceAllString(s, " ")

	for _, rule := range abbreviationRules {
		s = rule.pattern.ReplaceAllString(s, rule.expansion)
	}

	s = corporateFormsPattern.ReplaceAllString(s, "")
	s = stopwordsPattern.ReplaceAllString(s, "")
	return CollapseWhitespace(s)
}

func escapeAll(forms []string) []string {
	out := make([]string, len(forms))
	for i, f := range forms {
		out[i] = regexp.QuoteMeta(f)
	}
	return out
}
