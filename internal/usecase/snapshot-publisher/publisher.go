package snapshotpublisher

import (
	"context"

	snapshotpublisherv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/snapshot-publisher/v1"
	snapshotv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/config"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher emits snapshot rows to the snapshot topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// Ensure Publisher implements the domain contract
var _ snapshotpublisherv1.Publisher = (*Publisher)(nil)

// NewPublisher creates a Kafka publisher for snapshot rows.
func NewPublisher(cfg config.PublisherConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishRow publishes one snapshot row to the topic.
func (p *Publisher) PublishRow(ctx context.Context, row *snapshotv1.Row) error {
	msg := kafka.Message{
		Value: snapshotv1.ToBytes(row),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "orderID", Value: row.OrderID},
			logger.Field{Key: "offset", Value: row.Timestamp},
		)
		return errors.NewTracer(string(errors.SnapshotPublishError)).Wrap(err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
