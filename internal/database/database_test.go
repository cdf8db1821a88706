package database

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTracer struct {
	calls *[]string
	name  string
}

func (r recordingTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	*r.calls = append(*r.calls, r.name+":start")
	return ctx
}

func (r recordingTracer) TraceQueryEnd(_ context.Context, _ *pgx.Conn, _ pgx.TraceQueryEndData) {
	*r.calls = append(*r.calls, r.name+":end")
}

func TestMultiTracerCallsEveryTracerInOrder(t *testing.T) {
	var calls []string
	mt := &multiTracer{tracers: []pgx.QueryTracer{
		recordingTracer{calls: &calls, name: "a"},
		recordingTracer{calls: &calls, name: "b"},
	}}

	ctx := mt.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	mt.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	assert.Equal(t, []string{"a:start", "b:start", "a:end", "b:end"}, calls)
}

func TestSlowQueryTracer(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	tracer := &slowQueryTracer{log: &log, threshold: time.Hour}

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	assert.Empty(t, buf.String())

	tracer.threshold = 0
	ctx = tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 2"})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	assert.Contains(t, buf.String(), "slow query")
	assert.Contains(t, buf.String(), "SELECT 2")
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "001_setup.sql", entries[0].Name())
}

func TestTxFromContextEmpty(t *testing.T) {
	_, ok := TxFromContext(context.Background())
	assert.False(t, ok)
}
