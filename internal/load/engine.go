// Package load is the resilient load engine: it batches canonical records
// into upserts against the warehouse, falls back to per-record writes when a
// batch fails, and accounts for every record so none is silently lost.
package load

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skydeck/aeroload/internal/quarantine"
	"github.com/skydeck/aeroload/internal/standardize"
	"github.com/skydeck/aeroload/internal/store"
)

// Target is the warehouse surface the engine writes to.
//
// UpsertBatch writes all records in one statement keyed on conflictKey and
// returns, per record in input order, whether the record was newly inserted
// (true) or updated an existing row (false). UpsertOne does the same for a
// single record.
type Target interface {
	UpsertBatch(ctx context.Context, collection, conflictKey string, recs []standardize.Record) ([]bool, error)
	UpsertOne(ctx context.Context, collection, conflictKey string, rec standardize.Record) (bool, error)
}

// Sink receives the records the engine could not store.
type Sink interface {
	Write(ctx context.Context, e quarantine.Entry) error
}

// Summary accounts for one load run. Every attempted record lands in exactly
// one of Uploaded, AlreadyExisted, or Errors; callers surface these counts
// rather than a bare success flag.
type Summary struct {
	Attempted      int `json:"attempted"`
	Uploaded       int `json:"uploaded"`
	AlreadyExisted int `json:"alreadyExisted"`
	Errors         int `json:"errors"`
}

func (s *Summary) add(o Summary) {
	s.Attempted += o.Attempted
	s.Uploaded += o.Uploaded
	s.AlreadyExisted += o.AlreadyExisted
	s.Errors += o.Errors
}

// conflictKeys maps each warehouse collection to the field its upserts key
// on.
var conflictKeys = map[string]string{
	"passengers":         "passenger_key",
	"airports":           "airport_key",
	"airlines":           "airline_key",
	"flights":            "flight_key",
	"sales_transactions": "transaction_id",
}

// ConflictKey returns the upsert key for a collection. Unknown collections
// fall back to a generic "id" key; that fallback papers over a registry gap
// rather than fixing it, so it is logged loudly and should never be seen in
// a healthy deployment.
func ConflictKey(collection string) string {
	if key, ok := conflictKeys[collection]; ok {
		return key
	}
	slog.Warn("no conflict key registered for collection, falling back to generic id",
		"collection", collection)
	return "id"
}

// Engine loads canonical records into the warehouse.
//
// The engine never drops a record: each one ends up stored, counted as
// already existing, or quarantined with a reason. The only error Load
// returns is a quarantine failure that could not reach the local fallback
// either, which is the one condition that must abort the run.
type Engine struct {
	target    Target
	sink      Sink
	pacer     Pacer
	batchSize int
	log       *slog.Logger
}

// NewEngine builds an engine. batchSize must be positive.
func NewEngine(target Target, sink Sink, pacer Pacer, batchSize int, log *slog.Logger) *Engine {
	if batchSize < 1 {
		batchSize = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		target:    target,
		sink:      sink,
		pacer:     pacer,
		batchSize: batchSize,
		log:       log,
	}
}

// Load upserts recs into collection in fixed-size batches, in order. A batch
// that fails wholesale is retried record by record in the batch's original
// order; each individual failure is classified as a conflict ("already
// exists") or an other failure, quarantined accordingly, and not retried
// again.
func (e *Engine) Load(ctx context.Context, entity, collection string, recs []standardize.Record) (Summary, error) {
	summary := Summary{Attempted: len(recs)}
	if len(recs) == 0 {
		return summary, nil
	}

	conflictKey := ConflictKey(collection)

	for start := 0; start < len(recs); start += e.batchSize {
		end := start + e.batchSize
		if end > len(recs) {
			end = len(recs)
		}
		batch := recs[start:end]

		batchSummary, err := e.loadBatch(ctx, entity, collection, conflictKey, batch)
		if err != nil {
			return summary, err
		}
		summary.add(batchSummary)

		if end < len(recs) {
			e.pacer.AfterBatch(ctx)
		}
	}

	e.log.Info("load complete",
		"collection", collection,
		"attempted", summary.Attempted,
		"uploaded", summary.Uploaded,
		"already_existed", summary.AlreadyExisted,
		"errors", summary.Errors,
	)

	return summary, nil
}

func (e *Engine) loadBatch(ctx context.Context, entity, collection, conflictKey string, batch []standardize.Record) (Summary, error) {
	inserted, err := e.target.UpsertBatch(ctx, collection, conflictKey, batch)
	if err == nil {
		var s Summary
		for _, fresh := range inserted {
			if fresh {
				s.Uploaded++
			} else {
				s.AlreadyExisted++
			}
		}
		return s, nil
	}

	e.log.Warn("batch upsert failed, retrying records individually",
		"collection", collection, "batch_size", len(batch), "error", err)

	return e.retryIndividually(ctx, entity, collection, conflictKey, batch)
}

// retryIndividually re-attempts each record of a failed batch once, in the
// batch's original order. There is no further retry beyond this fallback.
func (e *Engine) retryIndividually(ctx context.Context, entity, collection, conflictKey string, batch []standardize.Record) (Summary, error) {
	var s Summary

	for i, rec := range batch {
		fresh, err := e.target.UpsertOne(ctx, collection, conflictKey, rec)
		switch {
		case err == nil && fresh:
			s.Uploaded++
		case err == nil:
			s.AlreadyExisted++
		case store.IsConflict(err):
			s.AlreadyExisted++
			if qErr := e.sink.Write(ctx, quarantine.Entry{
				Entity:  entity,
				Payload: rec,
				Reason:  "already exists",
			}); qErr != nil {
				return s, qErr
			}
		default:
			s.Errors++
			if qErr := e.sink.Write(ctx, quarantine.Entry{
				Entity:  entity,
				Payload: rec,
				Reason:  fmt.Sprintf("store write failed: %v", err),
			}); qErr != nil {
				return s, qErr
			}
		}

		if i < len(batch)-1 {
			e.pacer.AfterRetry(ctx)
		}
	}

	return s, nil
}
