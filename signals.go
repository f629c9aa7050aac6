package veil

import (
	"context"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for transform events.
var (
	SignalTransformerCreated = capitan.NewSignal("veil.transformer.created", "Transformer instantiated")
	SignalRevealStart        = capitan.NewSignal("veil.reveal.start", "Reveal operation beginning")
	SignalRevealComplete     = capitan.NewSignal("veil.reveal.complete", "Reveal operation finished")
	SignalRevealWarning      = capitan.NewSignal("veil.reveal.warning", "Schema-marked keys failed to decrypt")
	SignalConcealComplete    = capitan.NewSignal("veil.conceal.complete", "Conceal operation finished")
)

// Keys for typed event data.
var (
	KeyPathPurpose  = capitan.NewStringKey("path_purpose")
	KeyQueryPurpose = capitan.NewStringKey("query_purpose")
	KeyQueryMode    = capitan.NewStringKey("query_mode")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeySegmentCount = capitan.NewIntKey("segment_count")
	KeyQueryCount   = capitan.NewIntKey("query_count")
	KeyFailedCount  = capitan.NewIntKey("failed_count")
	KeyFailedKeys   = capitan.NewStringKey("failed_keys")
	KeyError        = capitan.NewErrorKey("error")
)

// emitTransformerCreated emits an event when a transformer is created.
func emitTransformerCreated(ctx context.Context, pathPurpose, queryPurpose string, mode QueryMode) {
	capitan.Emit(ctx, SignalTransformerCreated,
		KeyPathPurpose.Field(pathPurpose),
		KeyQueryPurpose.Field(queryPurpose),
		KeyQueryMode.Field(mode.String()),
	)
}

// emitRevealStart emits an event when a reveal begins.
func emitRevealStart(ctx context.Context, mode QueryMode, segments, queryKeys int) {
	capitan.Emit(ctx, SignalRevealStart,
		KeyQueryMode.Field(mode.String()),
		KeySegmentCount.Field(segments),
		KeyQueryCount.Field(queryKeys),
	)
}

// emitRevealComplete emits an event when a reveal finishes.
func emitRevealComplete(ctx context.Context, mode QueryMode, duration time.Duration, failed int) {
	capitan.Emit(ctx, SignalRevealComplete,
		KeyQueryMode.Field(mode.String()),
		KeyDuration.Field(duration),
		KeyFailedCount.Field(failed),
	)
}

// emitRevealWarning emits the single aggregated warning for one reveal,
// naming every non-ignored key that was expected to decrypt but did not.
// At most one of these fires per request, never one per key.
func emitRevealWarning(ctx context.Context, queryPurpose string, failedKeys []string) {
	capitan.Emit(ctx, SignalRevealWarning,
		KeyQueryPurpose.Field(queryPurpose),
		KeyFailedCount.Field(len(failedKeys)),
		KeyFailedKeys.Field(strings.Join(failedKeys, ",")),
	)
}

// emitConcealComplete emits an event when a conceal finishes.
func emitConcealComplete(ctx context.Context, pathPurpose string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyPathPurpose.Field(pathPurpose),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalConcealComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalConcealComplete, fields...)
	}
}
