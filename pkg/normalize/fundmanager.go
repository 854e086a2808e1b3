package normalize

import "strings"

// fundManagerAliases maps common shorthand and brand names for large
// asset managers to the canonical name used for fuzzy comparison.
var fundManagerAliases = map[string]string{
	"gsam":       "goldman sachs asset management",
	"gs":         "goldman sachs",
	"jpm":        "jp morgan",
	"jpmc":       "jp morgan chase",
	"ms":         "morgan stanley",
	"msim":       "morgan stanley investment management",
	"baml":       "bank of america merrill lynch",
	"bofa":       "bank of america",
	"ubs":        "ubs asset management",
	"cs":         "credit suisse",
	"db":         "deutsche bank",
	"dws":        "deutsche wealth management",
	"ssga":       "state street global advisors",
	"bny":        "bank of new york",
	"bnym":       "bank of new york mellon",
	"citi":       "citigroup",
	"hsbc":       "hsbc global",
	"bnp":        "bnp paribas",
	"axa":        "axa investment",
	"ab":         "alliancebernstein",
	"pimco":      "pacific investment management company",
	"blackrock":  "blackrock inc",
	"vanguard":   "vanguard group",
}

// FundManager normalizes a fund-manager name: first run it through Name,
// then resolve it against the known alias table, either by exact match
// or, failing that, by substring containment in either direction. If
// nothing resolves, the plain normalized name is returned.
func FundManager(name string) string {
	normalized := Name(name)
	if normalized == "" {
		return ""
	}

	if alias, ok := fundManagerAliases[normalized]; ok {
		return alias
	}

	for _, alias := range fundManagerAliases {
		if strings.Contains(alias, normalized) || strings.Contains(normalized, alias) {
			return alias
		}
	}

	return normalized
}
