package eventreader

import (
	"context"

	eventreaderv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/event-reader/v1"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/config"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Reader consumes order events from the feed topic in source order.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface
}

// Ensure Reader implements the domain contract
var _ eventreaderv1.EventReader = (*Reader)(nil)

// NewReader creates a Kafka reader for the order event topic.
func NewReader(cfg config.KafkaConfig, log logger.Interface) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		Partition:   0, // one instrument, one partition, one timeline
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// SetOffset positions the reader at the given feed offset.
func (r *Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadEvent reads the next message from the topic and decodes it as an
// order event.
func (r *Reader) ReadEvent(ctx context.Context) (kafka.Message, *eventreaderv1.OrderEvent, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadEvent")
		return kafka.Message{}, nil, err
	}

	event, err := eventreaderv1.FromBytes(msg.Value)
	if err != nil {
		r.logError(err, "DecodeEvent")
		return msg, nil, errors.NewTracer(string(errors.EventDecodeError)).Wrap(err)
	}

	event.Offset = msg.Offset

	r.logger.Debug("ReadEvent",
		logger.Field{Key: "orderID", Value: event.OrderID},
		logger.Field{Key: "action", Value: event.Action},
		logger.Field{Key: "side", Value: event.Side},
		logger.Field{Key: "price", Value: event.Price},
		logger.Field{Key: "quantity", Value: event.Quantity},
		logger.Field{Key: "offset", Value: event.Offset},
	)

	return msg, event, nil
}

// CommitMessages acknowledges processed messages. The reader runs without a
// consumer group so there is nothing to commit to the broker; the engine
// tracks its own offset and repositions via SetOffset.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}

func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "operation", Value: operation},
	)
}
