package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	eventreaderv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/event-reader/v1"
	orderbookv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/orderbook/v1"
	snapshotpublisherv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/snapshot-publisher/v1"
	snapshotv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/infrastructure/questdb/snapshotrow"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/usecase/snapshot"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/config"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/logger"
	"go.uber.org/zap/zapcore"
)

// Engine drives the reconstruction run: it reads order events in feed
// order, applies them to the book, and emits one snapshot row per applied
// event. Exactly one processing goroutine mutates the book.
type Engine struct {
	book      orderbookv1.OrderBook
	reader    eventreaderv1.EventReader
	builder   *snapshot.Builder
	publisher snapshotpublisherv1.Publisher
	repo      *snapshotrow.Repository // nil when persistence is disabled
	logger    *logger.Logger
	config    *config.Config

	mu            sync.RWMutex
	eventOffset   int64
	lastTimestamp int64
	totalMatches  int64
	totalSkipped  int64

	pending []*snapshotv1.Row // rows awaiting a repository flush

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	readBackoff    time.Duration
	flushBatchSize int
}

// NewEngine creates a new engine with default options.
func NewEngine(
	book orderbookv1.OrderBook,
	reader eventreaderv1.EventReader,
	builder *snapshot.Builder,
	publisher snapshotpublisherv1.Publisher,
	repo *snapshotrow.Repository,
	log *logger.Logger,
	cfg *config.Config,
) *Engine {
	return NewEngineWithOptions(book, reader, builder, publisher, repo, log, cfg, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options.
func NewEngineWithOptions(
	book orderbookv1.OrderBook,
	reader eventreaderv1.EventReader,
	builder *snapshot.Builder,
	publisher snapshotpublisherv1.Publisher,
	repo *snapshotrow.Repository,
	log *logger.Logger,
	cfg *config.Config,
	options *Options,
) *Engine {
	return &Engine{
		book:      book,
		reader:    reader,
		builder:   builder,
		publisher: publisher,
		repo:      repo,
		logger:    log,
		config:    cfg,

		eventOffset:    -1,
		readBackoff:    options.ReadBackoff,
		flushBatchSize: options.FlushBatchSize,
	}
}

// Start launches the event processor.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go e.runEventProcessor()

	e.logger.Info("Engine started",
		logger.Field{Key: "instrument", Value: e.config.Instrument},
		logger.Field{Key: "depthLevels", Value: e.builder.Depth()},
		logger.Field{Key: "matchingEnabled", Value: e.config.MatchingEnabled},
	)

	return nil
}

// Stop gracefully shuts down the engine, flushing any buffered rows.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}

	e.flushRows(ctx, true)

	quote := e.book.Quote()
	e.logger.Info("Engine stopped",
		logger.Field{Key: "rowsEmitted", Value: e.builder.Len()},
		logger.Field{Key: "totalMatches", Value: e.TotalMatches()},
		logger.Field{Key: "eventsSkipped", Value: e.TotalSkipped()},
		logger.Field{Key: "lastBid", Value: quote.BidPrice},
		logger.Field{Key: "lastAsk", Value: quote.AskPrice},
	)

	return nil
}

// runEventProcessor reads and applies events until the context is done.
func (e *Engine) runEventProcessor() {
	defer e.wg.Done()

	e.logger.Info("Starting event processor", logger.Field{
		Key:   "instrument",
		Value: e.config.Instrument,
	})

	currentOffset := e.EventOffset()
	if currentOffset >= 0 {
		currentOffset++
	} else {
		currentOffset = 0
	}

	if err := e.reader.SetOffset(currentOffset); err != nil {
		e.logger.GetZap().Fatal("Failed to set offset for event reader", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Event processor shutting down")
			e.reader.Close()
			return
		default:
			msg, event, err := e.reader.ReadEvent(e.ctx)
			if err != nil {
				if e.ctx.Err() != nil {
					continue
				}
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_event",
				})
				time.Sleep(e.readBackoff)
				continue
			}

			if err := e.reader.CommitMessages(e.ctx, msg); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "commit_event",
				})
			}

			e.processEvent(event)
			e.setEventOffset(msg.Offset)
		}
	}
}

// processEvent applies one event and, when it applies cleanly, emits the
// snapshot row. Rejected events are logged and skipped with book state
// intact; a crossed book aborts the run.
func (e *Engine) processEvent(event *eventreaderv1.OrderEvent) {
	if last := e.lastEventTimestamp(); event.Timestamp < last {
		e.skip(event, orderbookv1.ErrInvalidEvent, "timestamp regression")
		return
	}

	matches, err := e.book.ProcessEvent(event)
	if err != nil {
		if errors.Is(err, orderbookv1.ErrCrossedBook) {
			// state is no longer trustworthy, abort the run
			e.logger.GetZap().Fatal("Crossed book after matching", zapcore.Field{
				Key:       "error",
				Interface: err,
			})
		}
		e.skip(event, err, "process_event")
		return
	}

	e.setLastEventTimestamp(event.Timestamp)
	if len(matches) > 0 {
		e.logMatches(matches)
	}

	row := e.builder.Build(event, e.book)
	e.builder.Append(row)

	if err := e.publisher.PublishRow(e.ctx, row); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "publish_row",
		})
	}

	if e.repo != nil {
		e.pending = append(e.pending, row)
		e.flushRows(e.ctx, false)
	}
}

// skip records a rejected event. The feed offset still advances: retries
// belong to a higher layer that can re-derive a corrected event.
func (e *Engine) skip(event *eventreaderv1.OrderEvent, err error, reason string) {
	e.mu.Lock()
	e.totalSkipped++
	e.mu.Unlock()

	e.logger.Warn("Event skipped",
		logger.Field{Key: "reason", Value: reason},
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "offset", Value: event.Offset},
		logger.Field{Key: "orderID", Value: event.OrderID},
		logger.Field{Key: "eventAction", Value: event.Action},
	)
}

// flushRows persists buffered rows once the batch is full, or
// unconditionally when force is set.
func (e *Engine) flushRows(ctx context.Context, force bool) {
	if e.repo == nil || len(e.pending) == 0 {
		return
	}
	if !force && len(e.pending) < e.flushBatchSize {
		return
	}

	if err := e.repo.StoreBatch(ctx, e.pending); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "store_rows",
		})
		return
	}
	e.pending = e.pending[:0]
}

// logMatches logs executed matches and updates statistics.
func (e *Engine) logMatches(matches []orderbookv1.Match) {
	e.mu.Lock()
	e.totalMatches += int64(len(matches))
	currentTotal := e.totalMatches
	e.mu.Unlock()

	e.logger.Info("Matches executed",
		logger.Field{Key: "matchCount", Value: len(matches)},
		logger.Field{Key: "totalMatches", Value: currentTotal},
	)

	for i, match := range matches {
		e.logger.Info("Trade executed",
			logger.Field{Key: "matchIndex", Value: i + 1},
			logger.Field{Key: "price", Value: match.Price},
			logger.Field{Key: "quantity", Value: match.QuantityFilled},
			logger.Field{Key: "bidOrderID", Value: match.Bid.ID},
			logger.Field{Key: "askOrderID", Value: match.Ask.ID},
			logger.Field{Key: "askIsFilled", Value: match.AskIsFilled()},
			logger.Field{Key: "bidIsFilled", Value: match.BidIsFilled()},
		)
	}
}

// EventOffset returns the feed offset of the last consumed event.
func (e *Engine) EventOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.eventOffset
}

func (e *Engine) setEventOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eventOffset = offset
}

func (e *Engine) lastEventTimestamp() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastTimestamp
}

func (e *Engine) setLastEventTimestamp(ts int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastTimestamp = ts
}

// TotalMatches returns the total number of matches executed so far.
func (e *Engine) TotalMatches() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalMatches
}

// TotalSkipped returns the number of events rejected so far.
func (e *Engine) TotalSkipped() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalSkipped
}

// LastQuote returns the last known best bid/ask from the book's final
// state, for end-of-stream consumers.
func (e *Engine) LastQuote() orderbookv1.Quote {
	return e.book.Quote()
}
