package intake

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/fmateoc/entity-matching/internal/platform/tracing"
	"github.com/fmateoc/entity-matching/pkg/model"
)

// ProducerConfig configures the Kafka writer backing a Producer.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// Producer publishes one ProcessingResultEvent per completed intake record.
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

func (p *Producer) GetName() string { return "intake-producer" }

func (p *Producer) DependsOn() []string { return nil }

func (p *Producer) Start(ctx context.Context) error {
	return nil
}

func (p *Producer) Stop(ctx context.Context) error {
	return p.writer.Close()
}

// PublishResult publishes tenant's ProcessingResultEvent for the given
// record. The handler calling this must only commit the source offset
// once this returns without error.
func (p *Producer) PublishResult(ctx context.Context, tenant, recordID string, result model.ProcessingResult) error {
	ctx, span := tracing.StartSpan(ctx, "intake.Producer.PublishResult")
	defer span.End()

	result.AddMetadata("record_id", recordID)
	event := newResultEvent(tenant, result)

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(recordID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "decision", Value: []byte(event.Decision)},
			{Key: "tenant", Value: []byte(tenant)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("failed to publish processing result")
		return err
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"record_id": recordID,
		"decision":  event.Decision,
	}).Debug("published processing result")

	return nil
}
