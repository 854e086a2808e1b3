// Package store defines the read-only interface the matching pipeline
// uses to query the system of record. Concrete adapters (see
// internal/store/postgres) implement this against a real database; the
// matching pipeline itself never depends on a storage technology.
package store

import (
	"context"

	"github.com/fmateoc/entity-matching/pkg/model"
)

// RecordStore is the system-of-record query surface consumed by every
// matching stage. It is read-only: nothing in the matching pipeline ever
// writes back to the store.
type RecordStore interface {
	FindByMEI(ctx context.Context, mei string) ([]model.StoreEntity, error)
	FindByLEI(ctx context.Context, lei string) ([]model.StoreEntity, error)
	FindByEIN(ctx context.Context, ein string) ([]model.StoreEntity, error)
	FindByDebtDomainID(ctx context.Context, id string) ([]model.StoreEntity, error)

	// FindCandidatesByName returns entities whose name or fund-manager
	// field plausibly matches legalName/fundManager, for fuzzy scoring.
	// It is a recall-oriented prefilter, not a final match.
	FindCandidatesByName(ctx context.Context, legalName, fundManager string) ([]model.StoreEntity, error)

	FindByEmailDomain(ctx context.Context, domain string) ([]model.StoreEntity, error)

	// FindByCleanedShortName returns entities whose short name, with all
	// non-alphanumeric characters stripped, equals cleaned.
	FindByCleanedShortName(ctx context.Context, cleaned string) ([]model.StoreEntity, error)

	// FindByID returns a single entity by its store ID.
	FindByID(ctx context.Context, entityID int64) (*model.StoreEntity, error)
}
