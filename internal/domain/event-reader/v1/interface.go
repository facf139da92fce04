package eventreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// EventReader consumes order events from the feed in source order.
type EventReader interface {
	// SetOffset positions the reader at the given feed offset.
	SetOffset(offset int64) error
	// ReadEvent blocks until the next event is available.
	ReadEvent(ctx context.Context) (kafka.Message, *OrderEvent, error)
	// CommitMessages acknowledges processed messages.
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	// Close releases the underlying consumer.
	Close() error
}
