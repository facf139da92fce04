package snapshotrow

import "time"

// Record is the flattened persistence form of a snapshot row: one record
// per depth slot, so the table schema is independent of the configured
// depth. Level 0 is the best level on each side.
type Record struct {
	Timestamp   time.Time
	Instrument  string
	OrderID     string
	Action      string
	Side        string
	EventPrice  float64
	EventQty    int64
	Level       int
	BidPrice    float64
	BidQuantity int64
	AskPrice    float64
	AskQuantity int64
}

const tableName = "book_snapshots"

var columns = []string{
	"timestamp",
	"instrument",
	"order_id",
	"action",
	"side",
	"event_price",
	"event_qty",
	"level",
	"bid_price",
	"bid_qty",
	"ask_price",
	"ask_qty",
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS book_snapshots (
	timestamp TIMESTAMP,
	instrument SYMBOL,
	order_id STRING,
	action SYMBOL,
	side SYMBOL,
	event_price DOUBLE,
	event_qty LONG,
	level INT,
	bid_price DOUBLE,
	bid_qty LONG,
	ask_price DOUBLE,
	ask_qty LONG
) TIMESTAMP(timestamp) PARTITION BY DAY`
