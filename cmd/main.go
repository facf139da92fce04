package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/app/engine"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/infrastructure/questdb/snapshotrow"
	eventreader "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/usecase/event-reader"
	orderbook "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/usecase/orderbook"
	snapshot "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/usecase/snapshot"
	snapshotpublisher "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/usecase/snapshot-publisher"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/config"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/questdb"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg = &config.Config{}
	err = config.Load(cfg)
	if err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = logger
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	book := orderbook.NewBook(orderbook.Config{
		MatchingEnabled:                cfg.MatchingEnabled,
		ModifyPriceChangeRepriorities:  cfg.ModifyPriceChangeRepriorities,
		ModifyQuantityOnlyRepriorities: cfg.ModifyQuantityOnlyRepriorities,
	})
	builder := snapshot.NewBuilder(cfg.DepthLevels)
	reader := eventreader.NewReader(cfg.KafkaConfig, log)
	publisher := snapshotpublisher.NewPublisher(cfg.PublisherConfig, log)

	var repo *snapshotrow.Repository
	if cfg.QuestDBConfig.Enabled {
		client, err := questdb.NewClient(ctx, cfg.QuestDBConfig.Client)
		if err != nil {
			log.Error(err, logger.Field{
				Key:   "action",
				Value: "connect_questdb",
			})
			return
		}
		defer client.Close()

		repo = snapshotrow.NewRepository(client, cfg.Instrument)
		if err := repo.EnsureTable(ctx); err != nil {
			log.Error(err, logger.Field{
				Key:   "action",
				Value: "ensure_snapshot_table",
			})
			return
		}
	}

	engine := app.NewEngine(
		book,
		reader,
		builder,
		publisher,
		repo,
		log,
		cfg,
	)

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	// Wait for a shutdown signal
	<-sigChan
	log.Info("Shutdown signal received")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := engine.Stop(stopCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := publisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_publisher",
		})
	}

	_ = log.Sync()
}
