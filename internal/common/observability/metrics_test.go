package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_JobSpanAndMetrics(t *testing.T) {
	obs, err := New("franchise-pos-test", true)
	require.NoError(t, err)
	defer obs.Shutdown()

	ctx, span := obs.StartJobSpan(context.Background(), "create-bill", 42)
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.SpanContext().IsSampled())
	span.End()

	assert.NotPanics(t, func() {
		obs.RecordJob(ctx, "create-bill", "completed", 15*time.Millisecond)
	})
}

func TestObservability_ZeroValueIsSafe(t *testing.T) {
	obs := &Observability{}
	assert.NotPanics(t, func() {
		obs.RecordJob(context.Background(), "x", "failed", time.Second)
		obs.Shutdown()
	})
}
