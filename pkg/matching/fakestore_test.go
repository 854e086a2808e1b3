package matching

import (
	"context"
	"errors"
	"strings"

	"github.com/fmateoc/entity-matching/pkg/model"
)

// normalizeShortNameForTest reproduces the production SQL's
// regexp_replace(lower(short_name), '[^a-z0-9]', '', 'g') independently
// of cleanedShortName, so a case-handling regression in cleanedShortName
// shows up as a test failure instead of being masked by comparing the
// same helper against itself.
func normalizeShortNameForTest(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fakeStore is an in-memory store.RecordStore for pipeline tests. It
// indexes a fixed slice of entities by whichever identifier or name
// field the lookup needs.
type fakeStore struct {
	entities []model.StoreEntity
	err      error
}

func (s *fakeStore) FindByMEI(_ context.Context, mei string) ([]model.StoreEntity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.filter(func(e model.StoreEntity) bool { return e.MEI == mei }), nil
}

func (s *fakeStore) FindByLEI(_ context.Context, lei string) ([]model.StoreEntity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.filter(func(e model.StoreEntity) bool { return e.LEI == lei }), nil
}

func (s *fakeStore) FindByEIN(_ context.Context, ein string) ([]model.StoreEntity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.filter(func(e model.StoreEntity) bool { return e.EIN == ein }), nil
}

func (s *fakeStore) FindByDebtDomainID(_ context.Context, id string) ([]model.StoreEntity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.filter(func(e model.StoreEntity) bool { return e.DebtDomainID == id }), nil
}

func (s *fakeStore) FindCandidatesByName(_ context.Context, legalName, _ string) ([]model.StoreEntity, error) {
	if s.err != nil {
		return nil, s.err
	}
	if legalName == "" {
		return nil, nil
	}
	return s.entities, nil
}

func (s *fakeStore) FindByEmailDomain(_ context.Context, domain string) ([]model.StoreEntity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return nil, nil
}

func (s *fakeStore) FindByCleanedShortName(_ context.Context, cleaned string) ([]model.StoreEntity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.filter(func(e model.StoreEntity) bool { return normalizeShortNameForTest(e.ShortName) == cleaned }), nil
}

func (s *fakeStore) FindByID(_ context.Context, entityID int64) (*model.StoreEntity, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, e := range s.entities {
		if e.EntityID == entityID {
			return &e, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) filter(pred func(model.StoreEntity) bool) []model.StoreEntity {
	var out []model.StoreEntity
	for _, e := range s.entities {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

var errFakeStore = errors.New("fake store failure")
