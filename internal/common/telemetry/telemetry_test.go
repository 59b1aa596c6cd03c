// File path: internal/common/telemetry/telemetry_test.go
package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestCountersAdvance(t *testing.T) {
	runs := IngestRuns()
	RecordIngestRun(3, 1)
	if got := IngestRuns(); got != runs+1 {
		t.Fatalf("ingest runs = %d, want %d", got, runs+1)
	}

	queries := SearchQueries()
	RecordSearch(5 * time.Millisecond)
	if got := SearchQueries(); got != queries+1 {
		t.Fatalf("search queries = %d, want %d", got, queries+1)
	}

	generations := DocsGenerations()
	RecordProjection(true)
	RecordProjection(false)
	if got := DocsGenerations(); got != generations+2 {
		t.Fatalf("docs generations = %d, want %d", got, generations+2)
	}
}

func TestSpanCarriedByContext(t *testing.T) {
	if d := SpanDuration(context.Background()); d != 0 {
		t.Fatalf("bare context reported duration %v", d)
	}
	ctx, end := StartSpan(context.Background(), "test.span")
	defer end("outcome", "ok")
	if d := SpanDuration(ctx); d < 0 {
		t.Fatalf("negative span duration %v", d)
	}
}
