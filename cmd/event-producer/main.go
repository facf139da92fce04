package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"
)

// OrderEvent mirrors the wire form consumed by the book reconstructor.
type OrderEvent struct {
	Timestamp int64   `json:"timestamp"`
	OrderID   string  `json:"orderID"`
	Action    string  `json:"action"`
	Price     float64 `json:"price"`
	Side      string  `json:"side"`
	Quantity  int64   `json:"quantity"`
}

type liveOrder struct {
	id    string
	side  string
	price float64
	qty   int64
}

// generateEvents produces a plausible feed: mostly adds around a drifting
// mid price, with modifies and deletes against orders still live. Events
// carry non-decreasing timestamps.
func generateEvents(count int, basePrice float64, tick float64, rng *rand.Rand) []OrderEvent {
	events := make([]OrderEvent, 0, count)
	var live []liveOrder
	entropy := ulid.Monotonic(rng, 0)

	timestamp := time.Now().UnixMilli()
	mid := basePrice

	for i := 0; i < count; i++ {
		timestamp += int64(rng.Intn(50))
		mid += float64(rng.Intn(3)-1) * tick

		roll := rng.Float64()
		switch {
		case roll < 0.6 || len(live) == 0:
			side := "b"
			offset := -float64(rng.Intn(10)+1) * tick
			if rng.Float64() < 0.5 {
				side = "a"
				offset = -offset
			}
			order := liveOrder{
				id:    ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
				side:  side,
				price: mid + offset,
				qty:   int64(rng.Intn(100) + 1),
			}
			live = append(live, order)
			events = append(events, OrderEvent{
				Timestamp: timestamp,
				OrderID:   order.id,
				Action:    "a",
				Price:     order.price,
				Side:      order.side,
				Quantity:  order.qty,
			})

		case roll < 0.85:
			idx := rng.Intn(len(live))
			order := &live[idx]
			if rng.Float64() < 0.5 {
				order.price += float64(rng.Intn(3)-1) * tick
			}
			order.qty = int64(rng.Intn(100) + 1)
			events = append(events, OrderEvent{
				Timestamp: timestamp,
				OrderID:   order.id,
				Action:    "m",
				Price:     order.price,
				Side:      order.side,
				Quantity:  order.qty,
			})

		default:
			idx := rng.Intn(len(live))
			order := live[idx]
			live = append(live[:idx], live[idx+1:]...)
			events = append(events, OrderEvent{
				Timestamp: timestamp,
				OrderID:   order.id,
				Action:    "d",
				Price:     order.price,
				Side:      order.side,
				Quantity:  order.qty,
			})
		}
	}

	return events
}

func main() {
	var (
		brokers   = flag.String("brokers", "localhost:9092", "comma-separated kafka brokers")
		topic     = flag.String("topic", "order-events", "target topic")
		count     = flag.Int("count", 1000, "number of events to produce")
		basePrice = flag.Float64("base-price", 10_000, "starting mid price")
		tick      = flag.Float64("tick", 0.5, "price tick size")
		seed      = flag.Int64("seed", time.Now().UnixNano(), "rng seed")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	events := generateEvents(*count, *basePrice, *tick, rng)

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: strings.Split(*brokers, ","),
		Topic:   *topic,
	})
	defer writer.Close()

	ctx := context.Background()
	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			log.Fatalf("marshal event: %v", err)
		}
		messages = append(messages, kafka.Message{Value: value})
	}

	if err := writer.WriteMessages(ctx, messages...); err != nil {
		log.Fatalf("write events: %v", err)
	}

	log.Printf("produced %d events to %s (seed %d)", len(events), *topic, *seed)
}
