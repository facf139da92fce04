package questdb

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// QuestDBClient is the interface consumed by repositories, so tests can
// substitute an in-memory implementation.
type QuestDBClient interface {
	Exec(ctx context.Context, sql string, args ...any) error
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Ping(ctx context.Context) error
	Close()
}
