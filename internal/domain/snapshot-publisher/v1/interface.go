package snapshotpublisherv1

import (
	"context"

	snapshotv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/snapshot/v1"
)

// Publisher emits snapshot rows to the downstream consumers of the
// snapshot stream.
type Publisher interface {
	PublishRow(ctx context.Context, row *snapshotv1.Row) error
	Close() error
}
