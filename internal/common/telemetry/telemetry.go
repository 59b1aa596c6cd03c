// File path: internal/common/telemetry/telemetry.go

// Package telemetry publishes process-level counters through expvar and
// offers a lightweight span helper for debug traces. The API server exposes
// the counters at /debug/vars.
package telemetry

import (
	"context"
	"expvar"
	"sync"
	"time"

	"github.com/actionatlas/actionatlas/internal/common"
)

type spanKey struct{}

type span struct {
	name  string
	start time.Time
}

var (
	initOnce sync.Once

	ingestRunsTotal     *expvar.Int
	ingestFilesTotal    *expvar.Int
	ingestFailuresTotal *expvar.Int

	searchQueriesTotal   *expvar.Int
	searchLatencyMS      *expvar.Int
	docsGenerationsTotal *expvar.Int
	docsDegradedTotal    *expvar.Int
)

func ensureInit() {
	initOnce.Do(func() {
		ingestRunsTotal = expvar.NewInt("atlas_ingest_runs_total")
		ingestFilesTotal = expvar.NewInt("atlas_ingest_files_total")
		ingestFailuresTotal = expvar.NewInt("atlas_ingest_failures_total")

		searchQueriesTotal = expvar.NewInt("atlas_search_queries_total")
		searchLatencyMS = expvar.NewInt("atlas_search_latency_ms_total")
		docsGenerationsTotal = expvar.NewInt("atlas_docs_generations_total")
		docsDegradedTotal = expvar.NewInt("atlas_docs_degradations_total")
	})
}

// StartSpan opens a named debug span. The returned func closes it, logging
// the duration plus any attrs through the shared logger.
func StartSpan(ctx context.Context, name string) (context.Context, func(attrs ...any)) {
	ensureInit()
	sp := &span{name: name, start: time.Now()}
	ctx = context.WithValue(ctx, spanKey{}, sp)
	logger := common.Logger()
	logger.Debug("trace: start", "span", name)
	return ctx, func(attrs ...any) {
		duration := time.Since(sp.start)
		logger.Debug("trace: end", append([]any{"span", name, "dur", duration}, attrs...)...)
	}
}

// SpanDuration reports the elapsed time of the span carried by ctx, zero
// when there is none.
func SpanDuration(ctx context.Context) time.Duration {
	sp, _ := ctx.Value(spanKey{}).(*span)
	if sp == nil {
		return 0
	}
	return time.Since(sp.start)
}

// RecordIngestRun counts one batch with its per-file outcomes.
func RecordIngestRun(processed, failed int) {
	ensureInit()
	ingestRunsTotal.Add(1)
	if processed > 0 {
		ingestFilesTotal.Add(int64(processed))
	}
	if failed > 0 {
		ingestFailuresTotal.Add(int64(failed))
	}
}

// RecordSearch counts one query and accumulates its latency.
func RecordSearch(duration time.Duration) {
	ensureInit()
	searchQueriesTotal.Add(1)
	if duration > 0 {
		searchLatencyMS.Add(duration.Milliseconds())
	}
}

// RecordProjection counts one documentation generation, flagging runs that
// discarded unparseable prior content.
func RecordProjection(degraded bool) {
	ensureInit()
	docsGenerationsTotal.Add(1)
	if degraded {
		docsDegradedTotal.Add(1)
	}
}

// IngestRuns reports the current batch counter, mainly for tests.
func IngestRuns() int64 {
	ensureInit()
	return ingestRunsTotal.Value()
}

// SearchQueries reports the current query counter, mainly for tests.
func SearchQueries() int64 {
	ensureInit()
	return searchQueriesTotal.Value()
}

// DocsGenerations reports the current generation counter, mainly for tests.
func DocsGenerations() int64 {
	ensureInit()
	return docsGenerationsTotal.Value()
}
