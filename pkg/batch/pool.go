// Package batch runs a bounded worker pool that drains intake records
// through the matching pipeline, independently of how those records
// arrived (Kafka, a backfill script, a test harness).
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/fmateoc/entity-matching/pkg/matching"
	"github.com/fmateoc/entity-matching/pkg/model"
)

// Record is one unit of intake work: a primary extraction and, when the
// corresponding tax form was also captured, a corroborating secondary.
type Record struct {
	ID        string
	Primary   *model.ExtractedEntity
	Secondary *model.ExtractedEntity
}

// ResultHandler is invoked once per completed record, successful or not.
type ResultHandler func(ctx context.Context, record Record, result model.ProcessingResult)

// Pool is a fixed-size worker pool over a Processor. It implements the
// same GetName/DependsOn/Start/Stop shape the process startup orchestrator
// expects of every other long-lived dependency, so the orchestrator
// starts it only after the dependencies named in Config.DependsOn are up.
type Pool struct {
	log       ectologger.Logger
	processor *matching.Processor
	handler   ResultHandler

	size          int
	recordTimeout time.Duration
	dependsOn     []string

	records chan Record
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Config controls pool sizing and per-record timing. Zero values fall
// back to the documented defaults.
type Config struct {
	Size          int
	RecordTimeout time.Duration
	QueueDepth    int
	DependsOn     []string
}

// DefaultConfig returns the documented defaults: a pool of 4 workers,
// each record given 60 seconds before it is abandoned as an ERROR result.
func DefaultConfig() Config {
	return Config{Size: 4, RecordTimeout: 60 * time.Second, QueueDepth: 64}
}

// NewPool constructs a Pool around an already-configured Processor.
func NewPool(log ectologger.Logger, processor *matching.Processor, handler ResultHandler, cfg Config) *Pool {
	if cfg.Size <= 0 {
		cfg.Size = DefaultConfig().Size
	}
	if cfg.RecordTimeout <= 0 {
		cfg.RecordTimeout = DefaultConfig().RecordTimeout
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = DefaultConfig().QueueDepth
	}
	return &Pool{
		log:           log,
		processor:     processor,
		handler:       handler,
		size:          cfg.Size,
		recordTimeout: cfg.RecordTimeout,
		dependsOn:     cfg.DependsOn,
		records:       make(chan Record, cfg.QueueDepth),
	}
}

// GetName identifies this dependency to the startup orchestrator.
func (p *Pool) GetName() string { return "matching-worker-pool" }

// DependsOn lists the dependency names that must be started first.
func (p *Pool) DependsOn() []string { return p.dependsOn }

// Start spins up the configured number of workers. It returns
// immediately; workers run until Stop drains and cancels them.
func (p *Pool) Start(ctx context.Context) error {
	workerCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.runWorker(workerCtx, i)
	}
	p.log.WithContext(ctx).WithFields(map[string]any{"workers": p.size}).Info("Matching worker pool started")
	return nil
}

// Stop closes the intake queue and waits up to ctx's deadline (the
// 60-second shutdown grace period, set by the caller) for in-flight
// workers to drain. A wedged record is cut short by its own per-record
// deadline well before the grace period expires, so this should return
// on its own rather than hitting ctx's cancellation.
func (p *Pool) Stop(ctx context.Context) error {
	close(p.records)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.WithContext(ctx).Info("Matching worker pool drained")
	case <-ctx.Done():
		p.log.WithContext(ctx).Warn("Matching worker pool grace period expired; cancelling in-flight workers")
		p.cancel()
		<-done
	}
	return nil
}

// Submit enqueues a record for processing. It blocks until there is
// queue capacity or ctx is cancelled.
func (p *Pool) Submit(ctx context.Context, r Record) error {
	select {
	case p.records <- r:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("submitting record %q: %w", r.ID, ctx.Err())
	}
}

func (p *Pool) runWorker(ctx context.Context, workerIndex int) {
	defer p.wg.Done()
	log := p.log.WithFields(map[string]any{"worker": workerIndex})

	for record := range p.records {
		p.process(ctx, log, record)
	}
}

func (p *Pool) process(ctx context.Context, log ectologger.Logger, record Record) {
	recordCtx, cancel := context.WithTimeout(ctx, p.recordTimeout)
	defer cancel()

	result := p.runWithRecovery(recordCtx, log, record)

	if recordCtx.Err() == context.DeadlineExceeded && result.Decision != model.DecisionError {
		result.Decision = model.DecisionError
		result.AddMetadata("error", "record processing exceeded its deadline")
	}

	p.handler(ctx, record, result)
}

// runWithRecovery isolates one worker iteration's panic so a single bad
// record cannot kill the worker goroutine; it surfaces as a record-level
// ERROR result instead.
func (p *Pool) runWithRecovery(ctx context.Context, log ectologger.Logger, record Record) (result model.ProcessingResult) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]any{"record_id": record.ID, "panic": r}).Error("Recovered from panic processing record")
			result = model.ProcessingResult{Decision: model.DecisionError}
			result.AddMetadata("error", fmt.Sprintf("panic: %v", r))
		}
	}()
	return p.processor.Process(ctx, record.Primary, record.Secondary)
}
