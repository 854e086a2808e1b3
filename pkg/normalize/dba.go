package normalize

import (
	"regexp"
)

// dbaPatterns are tried in order; the first to match a "<legal> <marker>
// <trade>" shape wins. Order matters: "d.b.a." must be tried before a
// looser pattern could accidentally consume it.
var dbaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(.+?)\s+DBA\s+(.+)`),
	regexp.MustCompile(`(?i)(.+?)\s+d/b/a\s+(.+)`),
	regexp.MustCompile(`(?i)(.+?)\s+d\.b\.a\.\s+(.+)`),
	regexp.MustCompile(`(?i)(.+?)\s+trading as\s+(.+)`),
	regexp.MustCompile(`(?i)(.+?)\s+t/a\s+(.+)`),
}

// DBAComponents is the result of splitting a full name into its legal
// name and, if present, its trade ("doing business as") name.
type DBAComponents struct {
	LegalName string
	TradeName string
}

// HasDBA reports whether a trade name was extracted.
func (c DBAComponents) HasDBA() bool {
	return c.TradeName != ""
}

// ExtractDBA splits fullName on the first recognized DBA marker
// ("DBA", "d/b/a", "d.b.a.", "trading as", "t/a"), returning the legal
// name and trade name separately. If no marker is found, the whole
// input is returned as the legal name with no trade name.
func ExtractDBA(fullName string) DBAComponents {
	if fullName == "" {
		return DBAComponents{}
	}
	for _, pattern := range dbaPatterns {
		if m := pattern.FindStringSubmatch(fullName); m != nil {
			return DBAComponents{
				LegalName: CollapseWhitespace(m[1]),
				TradeName: CollapseWhitespace(m[2]),
			}
		}
	}
	return DBAComponents{LegalName: fullName}
}
