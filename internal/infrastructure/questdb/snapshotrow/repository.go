package snapshotrow

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	snapshotv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/questdb"
)

// Repository persists snapshot rows to QuestDB.
type Repository struct {
	client     questdb.QuestDBClient
	instrument string
}

// NewRepository creates a new snapshot row repository.
func NewRepository(client questdb.QuestDBClient, instrument string) *Repository {
	return &Repository{
		client:     client,
		instrument: instrument,
	}
}

// EnsureTable creates the snapshot table when it does not exist yet.
func (r *Repository) EnsureTable(ctx context.Context) error {
	if err := r.client.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}
	return nil
}

// StoreBatch persists a batch of snapshot rows, flattened into one record
// per depth slot, using the COPY protocol.
func (r *Repository) StoreBatch(ctx context.Context, rows []*snapshotv1.Row) error {
	if len(rows) == 0 {
		return nil
	}

	records := r.flatten(rows)

	_, err := r.client.CopyFrom(
		ctx,
		pgx.Identifier{tableName},
		columns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			return []any{
				rec.Timestamp,
				rec.Instrument,
				rec.OrderID,
				rec.Action,
				rec.Side,
				rec.EventPrice,
				rec.EventQty,
				rec.Level,
				rec.BidPrice,
				rec.BidQuantity,
				rec.AskPrice,
				rec.AskQuantity,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy snapshot rows: %w", err)
	}

	return nil
}

func (r *Repository) flatten(rows []*snapshotv1.Row) []Record {
	var records []Record
	for _, row := range rows {
		for lvl := range row.BidPrices {
			records = append(records, Record{
				// feed timestamps are milliseconds
				Timestamp:   time.UnixMilli(row.Timestamp).UTC(),
				Instrument:  r.instrument,
				OrderID:     row.OrderID,
				Action:      row.Action,
				Side:        row.Side,
				EventPrice:  row.Price,
				EventQty:    row.Quantity,
				Level:       lvl,
				BidPrice:    row.BidPrices[lvl],
				BidQuantity: row.BidQuantities[lvl],
				AskPrice:    row.AskPrices[lvl],
				AskQuantity: row.AskQuantities[lvl],
			})
		}
	}
	return records
}
