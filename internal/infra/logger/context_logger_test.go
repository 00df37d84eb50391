package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext_ExtractsBusinessKeys(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	cl := NewContextLoggerFrom(base, "topic-scout")

	ctx := WithRunID(context.Background(), "run-42")
	ctx = WithTopic(ctx, "index funds")
	ctx = WithStage(ctx, "fetch")
	ctx = WithJobID(ctx, "job-7")

	cl.WithContext(ctx).Info("stage_reached")

	out := buf.String()
	require.Contains(t, out, "stage_reached")
	assert.Contains(t, out, `"scout.run.id":"run-42"`)
	assert.Contains(t, out, `"scout.topic":"index funds"`)
	assert.Contains(t, out, `"scout.stage":"fetch"`)
	assert.Contains(t, out, `"scout.job.id":"job-7"`)
	assert.Contains(t, out, `"service":"topic-scout"`)
}

func TestWithContext_BareContextCarriesOnlyService(t *testing.T) {
	var buf bytes.Buffer
	cl := NewContextLoggerFrom(slog.New(slog.NewJSONHandler(&buf, nil)), "topic-scout")

	cl.WithContext(context.Background()).Info("plain")

	out := buf.String()
	assert.Contains(t, out, `"service":"topic-scout"`)
	assert.NotContains(t, out, "scout.run.id")
}
