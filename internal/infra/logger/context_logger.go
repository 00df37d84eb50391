package logger

import (
	"context"
	"log/slog"
)

type ContextKey string

const (
	// Business context keys propagated through the pipeline
	RunIDKey ContextKey = "scout.run.id"
	TopicKey ContextKey = "scout.topic"
	StageKey ContextKey = "scout.stage"
	JobIDKey ContextKey = "scout.job.id"
)

// ContextLogger extracts business context values into log fields
type ContextLogger struct {
	logger      *slog.Logger
	serviceName string
}

// NewContextLoggerFrom wraps an already configured logger, keeping its
// handler chain.
func NewContextLoggerFrom(base *slog.Logger, serviceName string) *ContextLogger {
	return &ContextLogger{
		logger:      base,
		serviceName: serviceName,
	}
}

// WithContext returns a logger with context values extracted and added as fields
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger.With("service", cl.serviceName)

	var fields []any

	if runID := ctx.Value(RunIDKey); runID != nil {
		fields = append(fields, string(RunIDKey), runID)
	}
	if topic := ctx.Value(TopicKey); topic != nil {
		fields = append(fields, string(TopicKey), topic)
	}
	if stage := ctx.Value(StageKey); stage != nil {
		fields = append(fields, string(StageKey), stage)
	}
	if jobID := ctx.Value(JobIDKey); jobID != nil {
		fields = append(fields, string(JobIDKey), jobID)
	}

	if len(fields) > 0 {
		logger = logger.With(fields...)
	}

	return logger
}

// WithRunID adds the pipeline run id to context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithTopic adds the requested topic to context
func WithTopic(ctx context.Context, topic string) context.Context {
	return context.WithValue(ctx, TopicKey, topic)
}

// WithStage adds the pipeline stage name to context
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, StageKey, stage)
}

// WithJobID adds the ingest job id to context
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, JobIDKey, jobID)
}
