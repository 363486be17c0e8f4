// Package pipeline drives one ingest run: classify the file by its headers,
// standardize each row, weed out duplicate keys, and hand the clean records
// to the load engine. Rows that fail any stage go to quarantine with a
// reason; only a quarantine failure aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/skydeck/aeroload/internal/dedupe"
	"github.com/skydeck/aeroload/internal/load"
	"github.com/skydeck/aeroload/internal/quarantine"
	"github.com/skydeck/aeroload/internal/resolver"
	"github.com/skydeck/aeroload/internal/signature"
	"github.com/skydeck/aeroload/internal/standardize"
)

// File is one named input stream.
type File struct {
	Name   string
	Reader io.Reader
}

// FileResult summarizes one file's run. Quarantined counts the rows diverted
// before the load stage (validation failures and duplicates); rows the load
// engine could not store appear in Load.AlreadyExisted and Load.Errors.
type FileResult struct {
	RunID        string       `json:"runId"`
	FileName     string       `json:"fileName"`
	DetectedType string       `json:"detectedType"`
	TotalRows    int          `json:"totalRows"`
	Clean        int          `json:"clean"`
	Quarantined  int          `json:"quarantined"`
	Load         load.Summary `json:"load"`
}

// Pipeline owns the per-process pieces of the ETL flow. All per-run state
// (dedup scopes, the airport existence cache) is created per call; the
// pipeline itself holds only immutable configuration and collaborators.
type Pipeline struct {
	sigs   []signature.FileSignature
	engine *load.Engine
	sink   load.Sink
	res    resolver.Store
	log    *slog.Logger
}

// New builds a pipeline over the load engine, quarantine sink, and the
// resolver's store surface.
func New(engine *load.Engine, sink load.Sink, res resolver.Store, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		sigs:   signature.Registry(),
		engine: engine,
		sink:   sink,
		res:    res,
		log:    log,
	}
}

// ProcessFile ingests a single file with its own dedup scope.
func (p *Pipeline) ProcessFile(ctx context.Context, file File) (FileResult, error) {
	return p.processFile(ctx, uuid.NewString(), file, dedupe.NewScope())
}

// ProcessBatch ingests several files as one logical operation, strictly in
// order, sharing a single dedup scope so a key repeated across files (two
// sales extracts, typically) is caught the same way as a repeat within one
// file. The scope is discarded when the batch ends; the store's unique
// constraint covers repeats across separate operations.
func (p *Pipeline) ProcessBatch(ctx context.Context, files []File) ([]FileResult, error) {
	scope := dedupe.NewScope()
	runID := uuid.NewString()

	results := make([]FileResult, 0, len(files))
	for _, f := range files {
		result, err := p.processFile(ctx, runID, f, scope)
		results = append(results, result)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (p *Pipeline) processFile(ctx context.Context, runID string, file File, scope *dedupe.Scope) (FileResult, error) {
	result := FileResult{RunID: runID, FileName: file.Name, DetectedType: string(signature.Unknown)}

	data, err := io.ReadAll(file.Reader)
	if err != nil {
		return result, fmt.Errorf("read %s: %w", file.Name, err)
	}

	records, err := parseCSV(sanitizeUTF8(data))
	if err != nil {
		return result, fmt.Errorf("parse %s: %w", file.Name, err)
	}
	if len(records) == 0 {
		return result, fmt.Errorf("empty file %s", file.Name)
	}

	header := records[0]
	dataRows := records[1:]
	result.TotalRows = len(dataRows)

	sig, entity := signature.Classify(p.sigs, header)
	result.DetectedType = string(entity)

	if entity == signature.Unknown {
		// Terminal for this file: no partial processing on a weak signal.
		p.log.Warn("could not classify file, skipping", "run_id", runID, "file", file.Name, "headers", header)
		return result, nil
	}

	runLog := p.log.With("run_id", runID, "file", file.Name, "entity", entity)
	runLog.Info("file classified", "rows", result.TotalRows)

	airports := resolver.NewAirports(p.res, runLog)

	var clean []standardize.Record
	for _, row := range dataRows {
		if isEmptyRow(row) {
			continue
		}
		raw := makeRawRow(header, row)

		rec, err := p.standardizeRow(ctx, entity, raw, airports)
		if err != nil {
			if qErr := p.quarantineRaw(ctx, entity, raw, err.Error()); qErr != nil {
				return result, qErr
			}
			result.Quarantined++
			continue
		}

		key := fmt.Sprint(rec[sig.ConflictKey])
		if !scope.Admit(key) {
			reason := fmt.Sprintf("duplicate %s %q within scope", sig.ConflictKey, key)
			if qErr := p.quarantineRaw(ctx, entity, raw, reason); qErr != nil {
				return result, qErr
			}
			result.Quarantined++
			continue
		}

		clean = append(clean, rec)
	}
	result.Clean = len(clean)

	summary, err := p.engine.Load(ctx, string(entity), sig.Collection, clean)
	result.Load = summary
	if err != nil {
		return result, err
	}

	runLog.Info("file processed",
		"clean", result.Clean,
		"quarantined", result.Quarantined,
		"uploaded", summary.Uploaded,
	)

	return result, nil
}

// standardizeRow dispatches to the entity's standardizer. The switch is
// exhaustive over the registered entity types; a new entity extends it at
// compile review time rather than through a lookup table.
func (p *Pipeline) standardizeRow(ctx context.Context, entity signature.EntityType, raw standardize.RawRow, airports *resolver.Airports) (standardize.Record, error) {
	switch entity {
	case signature.Passenger:
		return standardize.Passenger(raw)

	case signature.Airport:
		return standardize.Airport(raw)

	case signature.Airline:
		return standardize.Airline(raw)

	case signature.Flight:
		rec, err := standardize.Flight(raw)
		if err != nil {
			return nil, err
		}
		// A flight is not clean until both airport references resolve;
		// missing airports are healed forward with placeholders.
		for _, field := range []string{"origin_airport", "destination_airport"} {
			key, _ := rec[field].(string)
			if err := airports.Ensure(ctx, key); err != nil {
				return nil, fmt.Errorf("unresolved airport reference: %w", err)
			}
		}
		return rec, nil

	case signature.SalesTravel:
		return standardize.Sales(raw, standardize.ChannelTravelAgency)

	case signature.SalesCorporate:
		return standardize.Sales(raw, standardize.ChannelCorporate)

	default:
		return nil, fmt.Errorf("no standardizer for entity %q", entity)
	}
}

func (p *Pipeline) quarantineRaw(ctx context.Context, entity signature.EntityType, raw standardize.RawRow, reason string) error {
	return p.sink.Write(ctx, quarantine.Entry{
		Entity:  string(entity),
		Payload: quarantine.RawPayload(raw),
		Reason:  reason,
	})
}
