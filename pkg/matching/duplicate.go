package matching

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/fmateoc/entity-matching/pkg/model"
	"github.com/fmateoc/entity-matching/pkg/store"
)

// DuplicateDetector looks for other store records that plausibly
// describe the same entity as one already matched: shared identifiers,
// a short name that differs only by punctuation, or a full name close
// enough to be the same entity under a looser comparison than the fuzzy
// name matcher uses.
type DuplicateDetector struct {
	store store.RecordStore
}

// NewDuplicateDetector constructs a DuplicateDetector against store.
func NewDuplicateDetector(recordStore store.RecordStore) *DuplicateDetector {
	return &DuplicateDetector{store: recordStore}
}

// FindPotentialDuplicates returns every distinct store entity, other
// than entity itself, that looks like it might be the same underlying
// participant. Lookup errors are swallowed: duplicate detection is
// opportunistic and must never block a match from being returned.
func (d *DuplicateDetector) FindPotentialDuplicates(ctx context.Context, entity model.StoreEntity) []model.StoreEntity {
	seen := make(map[int64]model.StoreEntity)

	addAll := func(candidates []model.StoreEntity, err error) {
		if err != nil {
			return
		}
		for _, c := range candidates {
			if c.EntityID != entity.EntityID {
				seen[c.EntityID] = c
			}
		}
	}

	if entity.MEI != "" {
		addAll(d.store.FindByMEI(ctx, entity.MEI))
	}
	if entity.LEI != "" {
		addAll(d.store.FindByLEI(ctx, entity.LEI))
	}
	if entity.EIN != "" {
		addAll(d.store.FindByEIN(ctx, entity.EIN))
	}

	if entity.ShortName != "" {
		cleaned := cleanedShortName(entity.ShortName)
		candidates, err := d.store.FindByCleanedShortName(ctx, cleaned)
		if err == nil {
			for _, c := range candidates {
				if c.EntityID == entity.EntityID {
					continue
				}
				if strings.EqualFold(cleanedShortName(c.ShortName), cleaned) {
					seen[c.EntityID] = c
				}
			}
		}
	}

	if entity.FullName != "" {
		candidates, err := d.store.FindCandidatesByName(ctx, entity.FullName, entity.FundManagerName)
		if err == nil {
			for _, c := range candidates {
				if c.EntityID == entity.EntityID {
					continue
				}
				if _, already := seen[c.EntityID]; already {
					continue
				}
				if areNamesSimilar(entity.FullName, c.FullName) {
					seen[c.EntityID] = c
				}
			}
		}
	}

	out := make([]model.StoreEntity, 0, len(seen))
	for _, c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}

var duplicateNonWordPattern = regexp.MustCompile(`[^a-z0-9\s]`)
var duplicateWhitespacePattern = regexp.MustCompile(`\s+`)

// areNamesSimilar is a looser, standalone comparison than the fuzzy
// name matcher's: exact after normalization, containment either way, or
// an exact word-multiset match regardless of order.
func areNamesSimilar(name1, name2 string) bool {
	norm1 := normalizeForDuplicateCheck(name1)
	norm2 := normalizeForDuplicateCheck(name2)

	if norm1 == "" || norm2 == "" {
		return false
	}
	if norm1 == norm2 {
		return true
	}
	if strings.Contains(norm1, norm2) || strings.Contains(norm2, norm1) {
		return true
	}

	words1 := strings.Fields(norm1)
	words2 := strings.Fields(norm2)
	if len(words1) != len(words2) || len(words1) <= 1 {
		return false
	}
	return sameWordSet(words1, words2)
}

func normalizeForDuplicateCheck(name string) string {
	lower := strings.ToLower(name)
	stripped := duplicateNonWordPattern.ReplaceAllString(lower, " ")
	return strings.TrimSpace(duplicateWhitespacePattern.ReplaceAllString(stripped, " "))
}

func sameWordSet(a, b []string) bool {
	counts := make(map[string]int, len(a))
	for _, w := range a {
		counts[w]++
	}
	for _, w := range b {
		if counts[w] == 0 {
			return false
		}
		counts[w]--
	}
	return true
}
