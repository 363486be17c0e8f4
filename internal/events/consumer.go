// Package events consumes flight-delay events from Kafka and applies them to
// the warehouse: it records the reported delay on the flight and derives the
// passenger-facing insurance eligibility flag from it.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/skydeck/aeroload/internal/config"
)

// fetchErrorBackoff is the pause after a failed fetch before the consume
// loop tries again.
const fetchErrorBackoff = time.Second

// DelayEvent is one flight-delay notification on the wire.
type DelayEvent struct {
	FlightKey    string    `json:"flight_key"`
	DelayMinutes int       `json:"delay_minutes"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// FlightStore is the warehouse surface the consumer writes delay updates to.
// UpdateFlightDelay returns the number of flight rows affected.
type FlightStore interface {
	UpdateFlightDelay(ctx context.Context, flightKey string, delayMinutes int, insuranceEligible bool) (int64, error)
}

// Consumer reads delay events from a Kafka topic and applies them.
type Consumer struct {
	reader    *kafka.Reader
	store     FlightStore
	threshold int
	log       *slog.Logger
	wg        sync.WaitGroup
	cancel    context.CancelFunc
}

// NewConsumer builds a consumer over the configured brokers. The insurance
// threshold comes from configuration so business can tune it without a
// deploy.
func NewConsumer(cfg config.EventsConfig, store FlightStore, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader:    reader,
		store:     store,
		threshold: cfg.InsuranceDelayThreshold,
		log:       log,
	}
}

// Eligible reports whether a delay of the given minutes qualifies for the
// insurance payout at this consumer's threshold.
func (c *Consumer) Eligible(delayMinutes int) bool {
	return delayMinutes >= c.threshold
}

// Start begins consuming in the background.
func (c *Consumer) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.log.Info("delay event consumer started",
		"topic", c.reader.Config().Topic,
		"group", c.reader.Config().GroupID,
		"threshold_minutes", c.threshold,
	)
}

// Stop cancels the consume loop and closes the reader.
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.reader.Close()
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				c.log.Info("delay event consumer stopping")
				return
			}
			c.log.Error("fetch delay event failed", "error", err)
			// A broker outage would otherwise spin this loop hot.
			if !waitOrDone(ctx, fetchErrorBackoff) {
				return
			}
			continue
		}

		if err := c.processMessage(ctx, msg); err != nil {
			// Not committed: the event is redelivered for another attempt.
			c.log.Error("process delay event failed",
				"offset", msg.Offset, "partition", msg.Partition, "error", err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("commit delay event failed", "offset", msg.Offset, "error", err)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	event, err := decodeDelayEvent(msg.Value)
	if err != nil {
		// Malformed payloads can never succeed; log and commit past them.
		c.log.Warn("discarding malformed delay event",
			"offset", msg.Offset, "error", err)
		return nil
	}

	return c.Apply(ctx, event)
}

// Apply records the event's delay on its flight. Events for unknown flights
// are logged and dropped; delay events are advisory and do not heal forward.
func (c *Consumer) Apply(ctx context.Context, event DelayEvent) error {
	eligible := c.Eligible(event.DelayMinutes)

	affected, err := c.store.UpdateFlightDelay(ctx, event.FlightKey, event.DelayMinutes, eligible)
	if err != nil {
		return fmt.Errorf("update flight %s delay: %w", event.FlightKey, err)
	}

	if affected == 0 {
		c.log.Warn("delay event for unknown flight", "flight_key", event.FlightKey)
		return nil
	}

	c.log.Info("flight delay recorded",
		"flight_key", event.FlightKey,
		"delay_minutes", event.DelayMinutes,
		"insurance_eligible", eligible,
	)
	return nil
}

// waitOrDone sleeps for d unless the context ends first; it reports whether
// the caller should keep going.
func waitOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func decodeDelayEvent(data []byte) (DelayEvent, error) {
	var event DelayEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return DelayEvent{}, fmt.Errorf("decode delay event: %w", err)
	}
	if event.FlightKey == "" {
		return DelayEvent{}, fmt.Errorf("delay event missing flight_key")
	}
	if event.DelayMinutes < 0 {
		return DelayEvent{}, fmt.Errorf("delay event has negative delay_minutes %d", event.DelayMinutes)
	}
	return event, nil
}
