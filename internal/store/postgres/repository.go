// Package postgres implements store.RecordStore against the
// system-of-record Postgres schema, fronted by a short-lived identifier
// cache.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/fmateoc/entity-matching/internal/platform/database"
	"github.com/fmateoc/entity-matching/internal/platform/tracing"
	"github.com/fmateoc/entity-matching/pkg/emaildomain"
	"github.com/fmateoc/entity-matching/pkg/model"
	"github.com/fmateoc/entity-matching/pkg/store"
)

// entityRow mirrors the customer/location table's columns for sqlx's
// column-name-to-field mapping.
type entityRow struct {
	EntityID         int64          `db:"entity_id"`
	FullName         string         `db:"full_name"`
	ShortName        sql.NullString `db:"short_name"`
	UltimateParent   sql.NullString `db:"ultimate_parent"`
	MEI              sql.NullString `db:"mei"`
	LEI              sql.NullString `db:"lei"`
	EIN              sql.NullString `db:"ein"`
	DebtDomainID     sql.NullString `db:"debt_domain_id"`
	CountryCode      sql.NullString `db:"country_code"`
	LegalAddress     sql.NullString `db:"legal_address"`
	TaxAddress       sql.NullString `db:"tax_address"`
	RecordType       sql.NullString `db:"record_type"`
	ParentCustomerID sql.NullInt64  `db:"parent_customer_id"`
}

func (r entityRow) toStoreEntity() model.StoreEntity {
	return model.StoreEntity{
		EntityID:         r.EntityID,
		FullName:         r.FullName,
		ShortName:        r.ShortName.String,
		FundManagerName:  r.UltimateParent.String,
		MEI:              r.MEI.String,
		LEI:              r.LEI.String,
		EIN:              r.EIN.String,
		DebtDomainID:     r.DebtDomainID.String,
		CountryCode:      r.CountryCode.String,
		LegalAddress:     r.LegalAddress.String,
		TaxAddress:       r.TaxAddress.String,
		IsLocation:       r.RecordType.String == "LOCATION",
		ParentCustomerID: r.ParentCustomerID.Int64,
	}
}

const entityColumns = `entity_id, full_name, short_name, ultimate_parent, mei, lei, ein,
	debt_domain_id, country_code, legal_address, tax_address, record_type, parent_customer_id`

// Repository implements store.RecordStore against Postgres, caching
// identifier lookups (the hot path for every record the engine processes)
// for a configurable freshness window.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
	cache  *identifierCache
}

// New constructs a Repository whose identifier cache entries expire
// after ttl and which holds at most maxEntries cached lookups.
func New(db database.DB, logger ectologger.Logger, ttl time.Duration, maxEntries int) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
		cache:  newIdentifierCache(ttl, maxEntries),
	}
}

var _ store.RecordStore = (*Repository)(nil)

func (r *Repository) FindByMEI(ctx context.Context, mei string) ([]model.StoreEntity, error) {
	if mei == "" {
		return nil, nil
	}
	return r.cachedLookup(ctx, "MEI", mei, func(ctx context.Context) ([]model.StoreEntity, error) {
		return r.queryRows(ctx, "matching.find_by_mei",
			`SELECT `+entityColumns+` FROM customer WHERE mei = $1`, mei)
	})
}

func (r *Repository) FindByLEI(ctx context.Context, lei string) ([]model.StoreEntity, error) {
	if lei == "" {
		return nil, nil
	}
	return r.cachedLookup(ctx, "LEI", lei, func(ctx context.Context) ([]model.StoreEntity, error) {
		return r.queryRows(ctx, "matching.find_by_lei",
			`SELECT `+entityColumns+` FROM customer WHERE lei = $1`, lei)
	})
}

func (r *Repository) FindByEIN(ctx context.Context, ein string) ([]model.StoreEntity, error) {
	if ein == "" {
		return nil, nil
	}
	return r.cachedLookup(ctx, "EIN", ein, func(ctx context.Context) ([]model.StoreEntity, error) {
		return r.queryRows(ctx, "matching.find_by_ein",
			`SELECT `+entityColumns+` FROM customer WHERE replace(ein, '-', '') = replace($1, '-', '')`, ein)
	})
}

func (r *Repository) FindByDebtDomainID(ctx context.Context, id string) ([]model.StoreEntity, error) {
	if id == "" {
		return nil, nil
	}
	return r.cachedLookup(ctx, "DEBT_DOMAIN_ID", id, func(ctx context.Context) ([]model.StoreEntity, error) {
		return r.queryRows(ctx, "matching.find_by_debt_domain_id",
			`SELECT `+entityColumns+` FROM customer WHERE debt_domain_id = $1`, id)
	})
}

// FindCandidatesByName is a recall-oriented prefilter, never cached: its
// result set depends on two free-text inputs and is consumed once by the
// fuzzy matcher, so caching it would only grow the cache for no reuse.
func (r *Repository) FindCandidatesByName(ctx context.Context, legalName, fundManager string) ([]model.StoreEntity, error) {
	if legalName == "" {
		return nil, nil
	}

	pattern := "%" + legalName + "%"
	fmPattern := pattern
	if fundManager != "" {
		fmPattern = "%" + fundManager + "%"
	}

	return r.queryRows(ctx, "matching.find_candidates_by_name",
		`SELECT `+entityColumns+` FROM customer
		 WHERE full_name ILIKE $1 OR short_name ILIKE $2 OR ultimate_parent ILIKE $3
		    OR full_name = $4 OR short_name = $5
		 ORDER BY (full_name = $4) DESC, (short_name = $5) DESC NULLS LAST
		 LIMIT 100`,
		pattern, pattern, fmPattern, legalName, legalName)
}

func (r *Repository) FindByEmailDomain(ctx context.Context, domain string) ([]model.StoreEntity, error) {
	if domain == "" {
		return nil, nil
	}
	namePattern := "%" + domainLabel(domain) + "%"
	return r.queryRows(ctx, "matching.find_by_email_domain",
		`SELECT `+entityColumns+` FROM customer
		 WHERE email_domain = $1 OR full_name ILIKE $2 OR ultimate_parent ILIKE $3`,
		domain, namePattern, namePattern)
}

func (r *Repository) FindByCleanedShortName(ctx context.Context, cleaned string) ([]model.StoreEntity, error) {
	if cleaned == "" {
		return nil, nil
	}
	return r.queryRows(ctx, "matching.find_by_cleaned_short_name",
		`SELECT `+entityColumns+` FROM customer WHERE regexp_replace(lower(short_name), '[^a-z0-9]', '', 'g') = $1`,
		cleaned)
}

func (r *Repository) FindByID(ctx context.Context, entityID int64) (*model.StoreEntity, error) {
	rows, err := r.queryRows(ctx, "matching.find_by_id",
		`SELECT `+entityColumns+` FROM customer WHERE entity_id = $1`, entityID)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *Repository) queryRows(ctx context.Context, spanName, query string, args ...any) ([]model.StoreEntity, error) {
	ctx, span := tracing.StartSpan(ctx, spanName)
	defer span.End()

	var rows []entityRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Errorf("query failed: %s", spanName)
		return nil, err
	}

	entities := make([]model.StoreEntity, len(rows))
	for i, row := range rows {
		entities[i] = row.toStoreEntity()
	}
	return entities, nil
}

// domainLabel returns the registrable label of an email domain (the TLD
// and any subdomain removed), used as a loose name-matching hint.
func domainLabel(domain string) string {
	return emaildomain.ExtractDomainRoot(domain)
}
