package batch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/fmateoc/entity-matching/pkg/matching"
	"github.com/fmateoc/entity-matching/pkg/model"
	"github.com/fmateoc/entity-matching/pkg/store"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type emptyStore struct{}

func (emptyStore) FindByMEI(context.Context, string) ([]model.StoreEntity, error)            { return nil, nil }
func (emptyStore) FindByLEI(context.Context, string) ([]model.StoreEntity, error)            { return nil, nil }
func (emptyStore) FindByEIN(context.Context, string) ([]model.StoreEntity, error)            { return nil, nil }
func (emptyStore) FindByDebtDomainID(context.Context, string) ([]model.StoreEntity, error)   { return nil, nil }
func (emptyStore) FindCandidatesByName(context.Context, string, string) ([]model.StoreEntity, error) {
	return nil, nil
}
func (emptyStore) FindByEmailDomain(context.Context, string) ([]model.StoreEntity, error) { return nil, nil }
func (emptyStore) FindByCleanedShortName(context.Context, string) ([]model.StoreEntity, error) {
	return nil, nil
}
func (emptyStore) FindByID(context.Context, int64) (*model.StoreEntity, error) { return nil, nil }

var _ store.RecordStore = emptyStore{}

func newTestPool(t *testing.T, handler ResultHandler, cfg Config) *Pool {
	t.Helper()
	engine := matching.NewEngine(testLogger(), emptyStore{}, matching.DefaultConfig())
	processor := matching.NewProcessor(testLogger(), engine)
	return NewPool(testLogger(), processor, handler, cfg)
}

func TestPoolProcessesSubmittedRecords(t *testing.T) {
	var mu sync.Mutex
	var results []model.ProcessingResult

	pool := newTestPool(t, func(_ context.Context, _ Record, result model.ProcessingResult) {
		mu.Lock()
		results = append(results, result)
		mu.Unlock()
	}, Config{Size: 2, QueueDepth: 4})

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error starting pool: %v", err)
	}

	for i := 0; i < 3; i++ {
		err := pool.Submit(context.Background(), Record{
			ID:      "rec-" + string(rune('a'+i)),
			Primary: &model.ExtractedEntity{LegalName: "Acme Fund"},
		})
		if err != nil {
			t.Fatalf("unexpected error submitting record: %v", err)
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := pool.Stop(stopCtx); err != nil {
		t.Fatalf("unexpected error stopping pool: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Decision != model.DecisionNoMatch {
			t.Errorf("expected NO_MATCH against an empty store, got %v", r.Decision)
		}
	}
}

func TestPoolSubmitRespectsContextCancellation(t *testing.T) {
	pool := newTestPool(t, func(context.Context, Record, model.ProcessingResult) {}, Config{Size: 1, QueueDepth: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Fill the one-slot queue first so the next Submit would block, then
	// confirm cancellation unblocks it with an error rather than hanging.
	fillCtx, fillCancel := context.WithTimeout(context.Background(), time.Second)
	defer fillCancel()
	if err := pool.Submit(fillCtx, Record{ID: "fill"}); err != nil {
		t.Fatalf("unexpected error filling queue: %v", err)
	}

	if err := pool.Submit(ctx, Record{ID: "blocked"}); err == nil {
		t.Error("expected an error submitting to a full queue with a cancelled context")
	}
}

func TestPoolStopDrainsBeforeGracePeriodExpires(t *testing.T) {
	pool := newTestPool(t, func(context.Context, Record, model.ProcessingResult) {}, Config{Size: 1, QueueDepth: 1})
	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error starting pool: %v", err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	if err := pool.Stop(stopCtx); err != nil {
		t.Fatalf("unexpected error stopping pool: %v", err)
	}
	if time.Since(start) > 4*time.Second {
		t.Error("expected Stop to return promptly once the queue drained, not wait out the grace period")
	}
}
