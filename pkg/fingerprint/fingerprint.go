// Package fingerprint computes a deterministic digest of an extracted
// record pair, so that two submissions with the same extracted fields
// yield the same digest. No other package in this repository calls it;
// intake does not check fingerprints before processing a record.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/fmateoc/entity-matching/pkg/model"
)

// Generate creates a deterministic fingerprint for arbitrary structured
// data. The fingerprint is a SHA256 hash of the canonicalized JSON.
func Generate(data map[string]any) string {
	return GenerateWithExclusions(data, nil)
}

// GenerateWithExclusions creates a fingerprint excluding specified fields.
// The excludeFields set contains dot-notation paths to exclude (e.g.
// "contact_emails", "secondary.email_domain"). Top-level fields are
// matched directly; nested paths are matched hierarchically.
func GenerateWithExclusions(data map[string]any, excludeFields map[string]bool) string {
	canonical := canonicalizeWithExclusions(data, excludeFields, "")
	hash := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(hash[:])
}

// FromExtraction fingerprints the fields that determine how a record will
// be matched: the primary extraction and, when present, the corroborating
// secondary extraction. Contact emails and per-field confidence scores are
// excluded deliberately — they vary across re-extractions of the same
// underlying form without changing what the entity actually is.
func FromExtraction(primary, secondary *model.ExtractedEntity) string {
	data := map[string]any{"primary": extractionFields(primary)}
	if secondary != nil {
		data["secondary"] = extractionFields(secondary)
	}
	return Generate(data)
}

func extractionFields(e *model.ExtractedEntity) map[string]any {
	if e == nil {
		return nil
	}
	return map[string]any{
		"legal_name":       e.LegalName,
		"fund_manager":     e.FundManager,
		"mei":              e.MEI,
		"lei":              e.LEI,
		"ein":              e.EIN,
		"debt_domain_id":   e.DebtDomainID,
		"email_domain":     e.EmailDomain,
		"dba":              e.DBA,
		"country_code":     e.CountryCode,
		"tax_country_code": e.TaxCountryCode,
	}
}

// HasChanged compares two fingerprints to detect changes.
func HasChanged(oldFingerprint, newFingerprint string) bool {
	return oldFingerprint != newFingerprint
}

func canonicalizeWithExclusions(data any, excludeFields map[string]bool, currentPath string) string {
	switch v := data.(type) {
	case map[string]any:
		return canonicalizeMapWithExclusions(v, excludeFields, currentPath)
	case []any:
		return canonicalizeArrayWithExclusions(v, excludeFields, currentPath)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

func canonicalizeMapWithExclusions(m map[string]any, excludeFields map[string]bool, currentPath string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var result strings.Builder
	result.WriteByte('{')
	first := true
	for _, k := range keys {
		fieldPath := k
		if currentPath != "" {
			fieldPath = currentPath + "." + k
		}
		if shouldExcludeField(fieldPath, excludeFields) {
			continue
		}
		if !first {
			result.WriteByte(',')
		}
		first = false
		keyJSON, _ := json.Marshal(k)
		result.Write(keyJSON)
		result.WriteByte(':')
		result.WriteString(canonicalizeWithExclusions(m[k], excludeFields, fieldPath))
	}
	result.WriteByte('}')
	return result.String()
}

func canonicalizeArrayWithExclusions(arr []any, excludeFields map[string]bool, currentPath string) string {
	var result strings.Builder
	result.WriteByte('[')
	for i, v := range arr {
		if i > 0 {
			result.WriteByte(',')
		}
		result.WriteString(canonicalizeWithExclusions(v, excludeFields, currentPath))
	}
	result.WriteByte(']')
	return result.String()
}

// shouldExcludeField reports whether a field path should be excluded.
// Supports exact matches and prefix matches for nested objects.
func shouldExcludeField(fieldPath string, excludeFields map[string]bool) bool {
	if excludeFields == nil {
		return false
	}
	if excludeFields[fieldPath] {
		return true
	}
	for excluded := range excludeFields {
		if strings.HasPrefix(fieldPath, excluded+".") {
			return true
		}
	}
	return false
}
