package observability

import (
	"context"
	"time"
)

// ScoringMetrics records session-level operation outcomes.
type ScoringMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordCellRollback(ctx context.Context)
	RecordStaleResponseDiscarded(ctx context.Context)
}

// GatewayMetrics records remote scoring gateway round trips.
type GatewayMetrics interface {
	RecordRequest(ctx context.Context, operation string)
	RecordRequestFailure(ctx context.Context, operation string)
	RecordRequestDuration(ctx context.Context, operation string, duration time.Duration)
}

// NoOpScoringMetrics satisfies ScoringMetrics without recording anything.
type NoOpScoringMetrics struct{}

func (NoOpScoringMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpScoringMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpScoringMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpScoringMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpScoringMetrics) RecordCellRollback(context.Context)                             {}
func (NoOpScoringMetrics) RecordStaleResponseDiscarded(context.Context)                   {}

// NoOpGatewayMetrics satisfies GatewayMetrics without recording anything.
type NoOpGatewayMetrics struct{}

func (NoOpGatewayMetrics) RecordRequest(context.Context, string)                        {}
func (NoOpGatewayMetrics) RecordRequestFailure(context.Context, string)                 {}
func (NoOpGatewayMetrics) RecordRequestDuration(context.Context, string, time.Duration) {}
