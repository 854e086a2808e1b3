package intake

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/fmateoc/entity-matching/internal/platform/reqcontext"
	"github.com/fmateoc/entity-matching/internal/platform/tracing"
	"github.com/fmateoc/entity-matching/pkg/batch"
)

// SubmitFunc enqueues a decoded record onto the worker pool. The pool
// processes records asynchronously, so a successful SubmitFunc call only
// means the record was accepted onto the queue, not that it finished.
type SubmitFunc func(ctx context.Context, record batch.Record) error

// ConsumerConfig configures the Kafka reader backing a Consumer.
type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// Consumer reads intake envelopes off Kafka, submits each to the worker
// pool, and waits for that specific record's completion signal (delivered
// via Complete, called from the pool's result handler once the
// ProcessingResult has been published) before committing its offset.
// This keeps the at-least-once guarantee intact even though the pool
// itself processes records concurrently and out of order.
type Consumer struct {
	reader *kafka.Reader
	logger ectologger.Logger
	submit SubmitFunc

	mu      sync.Mutex
	pending map[string]chan error

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewConsumer(cfg ConsumerConfig, logger ectologger.Logger, submit SubmitFunc) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader:  reader,
		logger:  logger,
		submit:  submit,
		pending: make(map[string]chan error),
	}
}

// GetName identifies this dependency to the startup orchestrator.
func (c *Consumer) GetName() string { return "intake-consumer" }

// DependsOn reports that the consumer has no startup dependencies of its own.
func (c *Consumer) DependsOn() []string { return nil }

func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"topic": c.reader.Config().Topic,
	}).Info("intake consumer started")
	return nil
}

func (c *Consumer) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.reader.Close()
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			c.logger.WithContext(ctx).Info("intake consumer loop stopping")
			return
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if err == context.Canceled || err == io.EOF {
					return
				}
				c.logger.WithContext(ctx).WithError(err).Error("failed to fetch intake message")
				continue
			}
			c.processMessage(ctx, msg)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	ctx, span := tracing.StartSpan(ctx, "intake.Consumer.processMessage")
	defer span.End()

	log := c.logger.WithContext(ctx).WithFields(map[string]any{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	var envelope recordEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		log.WithError(err).Error("failed to decode intake envelope, committing to avoid poison-message stall")
		if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
			log.WithError(commitErr).Error("failed to commit undecodable message")
		}
		return
	}

	ctx = reqcontext.SetRecordID(ctx, envelope.RecordID)
	ctx = reqcontext.SetTenantID(ctx, envelope.Tenant)

	record := batch.Record{
		ID:        envelope.RecordID,
		Primary:   envelope.PrimaryExtraction.toEntity(),
		Secondary: envelope.SecondaryExtraction.toEntity(),
	}

	done := c.registerPending(record.ID)
	defer c.unregisterPending(record.ID)

	if err := c.submit(ctx, record); err != nil {
		log.WithError(err).Error("failed to submit intake record to worker pool, not committing")
		return
	}

	select {
	case err := <-done:
		if err != nil {
			log.WithError(err).Error("processing result was not published, not committing")
			return
		}
	case <-ctx.Done():
		log.Warn("context cancelled while awaiting record completion, not committing")
		return
	}

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		log.WithError(err).Error("failed to commit intake message")
	}
}

func (c *Consumer) registerPending(recordID string) chan error {
	ch := make(chan error, 1)
	c.mu.Lock()
	c.pending[recordID] = ch
	c.mu.Unlock()
	return ch
}

func (c *Consumer) unregisterPending(recordID string) {
	c.mu.Lock()
	delete(c.pending, recordID)
	c.mu.Unlock()
}

// Complete signals that recordID finished processing: err is nil when its
// ProcessingResult was published successfully, non-nil otherwise. Called
// from the worker pool's result handler, never from the fetch loop itself.
func (c *Consumer) Complete(recordID string, err error) {
	c.mu.Lock()
	ch, ok := c.pending[recordID]
	c.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- err:
	default:
	}
}

// Health reports whether the underlying reader was constructed.
func (c *Consumer) Health() bool {
	return c.reader != nil
}
