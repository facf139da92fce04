package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/exchange/services/book-reconstructor/pkg/questdb"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // .env file is optional

	if err := env.Parse(cfg); err != nil {
		return err
	}

	return nil
}

// Config holds the configuration for the application
type Config struct {
	Instrument      string                `env:"INSTRUMENT,required"` // Instrument symbol, e.g., BTC/USD
	BookConfig      `envPrefix:"BOOK_"`   // Book reconstruction configuration
	KafkaConfig     `envPrefix:"KAFKA_"`  // Event source configuration
	PublisherConfig `envPrefix:"SNAPSHOT_"` // Snapshot publisher configuration
	QuestDBConfig   `envPrefix:"QUESTDB_"` // Snapshot row persistence configuration
}

// BookConfig holds the policy knobs of the book core.
type BookConfig struct {
	// DepthLevels is the number of price levels materialized per snapshot side.
	DepthLevels int `env:"DEPTH_LEVELS" envDefault:"5"`
	// MatchingEnabled controls whether a marketable add executes against the
	// opposite side before resting its remainder.
	MatchingEnabled bool `env:"MATCHING_ENABLED" envDefault:"false"`
	// ModifyPriceChangeRepriorities moves an order to the tail of its new level
	// when a modify changes its price.
	ModifyPriceChangeRepriorities bool `env:"MODIFY_PRICE_REPRIORITIES" envDefault:"true"`
	// ModifyQuantityOnlyRepriorities moves an order to the tail of its level
	// when a modify changes only its quantity.
	ModifyQuantityOnlyRepriorities bool `env:"MODIFY_QUANTITY_REPRIORITIES" envDefault:"false"`
}

// KafkaConfig holds the configuration for the order event topic consumer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"default_group"`
	Brokers []string `env:"BROKER,required"`
}

// PublisherConfig holds the configuration for the snapshot row publisher.
type PublisherConfig struct {
	Topic   string   `env:"TOPIC,required"`
	Brokers []string `env:"BROKER,required"`
}

// QuestDBConfig holds the configuration for the snapshot row repository.
type QuestDBConfig struct {
	Enabled   bool           `env:"ENABLED" envDefault:"false"`
	BatchSize int            `env:"BATCH_SIZE" envDefault:"256"`
	Client    questdb.Config `envPrefix:""`
}
