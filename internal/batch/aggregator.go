package batch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deg0at/cfaxdlr/internal/carfax"
	"github.com/deg0at/cfaxdlr/internal/progress"
)

// RecordProcessor is the per-record pipeline the aggregator fans records to.
type RecordProcessor interface {
	Process(ctx context.Context, rec carfax.Record, download bool) (carfax.Result, *carfax.Document)
}

// Config controls batch execution.
type Config struct {
	// Concurrency is the worker count; 1 (or less) is the sequential baseline.
	Concurrency int
	// URLColumn names the appended resolved-URL column.
	URLColumn string
}

// DefaultURLColumn is the appended column name when none is configured.
const DefaultURLColumn = "CARFAX_URL"

// Aggregator owns the result sequence and the archive for one run. Workers
// return immutable results; only the collecting goroutine inside Run mutates
// shared state.
type Aggregator struct {
	processor RecordProcessor
	emitter   progress.Emitter
	cfg       Config
	logger    *zap.Logger
}

// New builds an Aggregator.
func New(proc RecordProcessor, emitter progress.Emitter, cfg Config, logger *zap.Logger) *Aggregator {
	if emitter == nil {
		emitter = progress.Nop{}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.URLColumn == "" {
		cfg.URLColumn = DefaultURLColumn
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		processor: proc,
		emitter:   emitter,
		cfg:       cfg,
		logger:    logger,
	}
}

// Output bundles the artifacts of one run.
type Output struct {
	RunID uuid.UUID
	// Enriched is the input table with the resolved-URL column appended.
	Enriched *Table
	// Archive is a zip of downloaded reports, nil when none were stored.
	Archive []byte
	// ArchiveCount is the number of files inside Archive.
	ArchiveCount int
	// Results holds one entry per processed record, in input order.
	Results []carfax.Result
	// Warnings carries caller-visible conditions that did not fail the run.
	Warnings []string
}

type outcome struct {
	res carfax.Result
	doc *carfax.Document
}

// Run processes every row of table and assembles the run artifacts. A single
// record's failure never fails the batch; the only fatal condition is an
// unusable input table. Cancelling ctx stops issuing new records and returns
// the results completed so far.
func (a *Aggregator) Run(ctx context.Context, table *Table, urlColumn, idColumn string, download bool) (*Output, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, errors.New("input table has no data rows")
	}
	urlIdx, err := table.ColumnIndex(urlColumn)
	if err != nil {
		return nil, fmt.Errorf("source-url column: %w", err)
	}
	idIdx, err := table.ColumnIndex(idColumn)
	if err != nil {
		return nil, fmt.Errorf("identifier column: %w", err)
	}

	runID := uuid.New()
	records := a.buildRecords(table, urlIdx, idIdx)
	a.logger.Info("batch started",
		zap.String("run_id", runID.String()),
		zap.Int("records", len(records)),
		zap.Int("concurrency", a.cfg.Concurrency),
		zap.Bool("download", download),
	)

	results, docs := a.processAll(ctx, runID, records, download)

	out := &Output{RunID: runID, Results: results}
	if len(results) < len(records) {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("run canceled after %d of %d records", len(results), len(records)))
	}

	enriched, err := a.enrich(table, idIdx, results)
	if err != nil {
		return nil, err
	}
	out.Enriched = enriched

	if download {
		out.Archive, out.ArchiveCount = buildArchive(results, docs)
		if out.ArchiveCount == 0 {
			out.Warnings = append(out.Warnings,
				"report downloads were requested but none succeeded")
		}
	}

	a.logger.Info("batch finished",
		zap.String("run_id", runID.String()),
		zap.Int("results", len(out.Results)),
		zap.Int("archived", out.ArchiveCount),
		zap.Strings("warnings", out.Warnings),
	)
	return out, nil
}

// buildRecords materializes one Record per row. Rows with an empty identifier
// cell fall back to row_<n> so they still get filenames and join keys.
func (a *Aggregator) buildRecords(table *Table, urlIdx, idIdx int) []carfax.Record {
	records := make([]carfax.Record, len(table.Rows))
	for i := range table.Rows {
		records[i] = carfax.Record{
			Index:      i,
			Identifier: identifierFor(table, idIdx, i),
			RawURL:     table.Cell(i, urlIdx),
		}
	}
	return records
}

func identifierFor(table *Table, idIdx, row int) string {
	if id := table.Cell(row, idIdx); id != "" {
		return id
	}
	return fmt.Sprintf("row_%d", row)
}

// processAll fans records out to the worker pool and merges worker-local
// outcomes back into input order.
func (a *Aggregator) processAll(ctx context.Context, runID uuid.UUID, records []carfax.Record, download bool) ([]carfax.Result, map[int]*carfax.Document) {
	jobs := make(chan carfax.Record)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for range a.cfg.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				start := time.Now()
				res, doc := a.processor.Process(ctx, rec, download)
				a.emitter.Emit(progress.Event{
					RunID:      runID,
					TS:         time.Now().UTC(),
					Index:      rec.Index,
					Total:      len(records),
					Identifier: rec.Identifier,
					Status:     res.Status,
					Note:       res.ErrorMsg,
					Dur:        time.Since(start),
				})
				outcomes <- outcome{res: res, doc: doc}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, rec := range records {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case jobs <- rec:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]carfax.Result, 0, len(records))
	docs := make(map[int]*carfax.Document)
	for oc := range outcomes {
		results = append(results, oc.res)
		if oc.doc != nil {
			docs[oc.res.Index] = oc.doc
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results, docs
}

// enrich joins resolved URLs back onto the original rows by identifier. The
// first result seen per identifier wins; rows without a resolution get an
// empty cell.
func (a *Aggregator) enrich(table *Table, idIdx int, results []carfax.Result) (*Table, error) {
	lookup := make(map[string]string, len(results))
	for _, res := range results {
		if _, seen := lookup[res.Identifier]; !seen {
			lookup[res.Identifier] = res.ResolvedURL
		}
	}

	values := make([]string, len(table.Rows))
	for i := range table.Rows {
		values[i] = lookup[identifierFor(table, idIdx, i)]
	}
	enriched, err := table.WithColumn(a.cfg.URLColumn, values)
	if err != nil {
		return nil, fmt.Errorf("append %s column: %w", a.cfg.URLColumn, err)
	}
	return enriched, nil
}
