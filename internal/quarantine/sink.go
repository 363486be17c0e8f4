// Package quarantine is the durable, append-only record of every row the
// pipeline could not load: validation rejects, duplicates, and store write
// failures. Entries are written once with the original payload and a
// human-readable reason, and are never mutated, retracted, or reprocessed
// automatically; a row that later succeeds on retry keeps its earlier entry.
package quarantine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Entry is one quarantined row.
type Entry struct {
	// Entity is the detected entity type of the source file.
	Entity string `json:"entity"`

	// Payload is the row as it arrived, before any standardization that may
	// have failed. For load failures it is the canonical record instead.
	Payload map[string]any `json:"payload"`

	// Reason is a human-readable explanation for review.
	Reason string `json:"reason"`

	// At is when the failure was discovered.
	At time.Time `json:"at"`
}

// Writer is the remote quarantine destination, typically the warehouse's
// append-only quarantine collection.
type Writer interface {
	InsertQuarantine(ctx context.Context, e Entry) error
}

// Sink writes entries to the remote destination and falls back to a local
// durable NDJSON log when the remote is unavailable, so quarantine data is
// never lost. A sink write fails only when both destinations fail; callers
// must treat that as fatal for the run since it risks silent data loss.
type Sink struct {
	remote   Writer
	fallback *FallbackLog
	log      *slog.Logger
}

// NewSink builds a sink over the remote writer with a local fallback file at
// fallbackPath.
func NewSink(remote Writer, fallbackPath string, log *slog.Logger) *Sink {
	if log == nil {
		log = slog.Default()
	}
	return &Sink{
		remote:   remote,
		fallback: NewFallbackLog(fallbackPath),
		log:      log,
	}
}

// Write appends one entry. Timestamps are filled in when the caller left
// them zero.
func (s *Sink) Write(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	remoteErr := s.remote.InsertQuarantine(ctx, e)
	if remoteErr == nil {
		return nil
	}

	s.log.Warn("remote quarantine write failed, using local fallback",
		"entity", e.Entity, "error", remoteErr)

	if err := s.fallback.Append(e); err != nil {
		return fmt.Errorf("quarantine write failed on both destinations: remote: %v; fallback: %w", remoteErr, err)
	}

	return nil
}

// RawPayload converts a raw string row to the payload form stored with an
// entry.
func RawPayload(row map[string]string) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
