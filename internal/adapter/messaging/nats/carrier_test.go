package nats

import (
	"context"
	"strings"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestHeaderCarrier_RoundTrip(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	header := make(nats.Header)
	prop := propagation.TraceContext{}
	prop.Inject(ctx, headerCarrier(header))

	require.NotEmpty(t, header.Get("traceparent"))
	keys := headerCarrier(header).Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.EqualFold("traceparent", keys[0]))

	extracted := trace.SpanContextFromContext(prop.Extract(context.Background(), headerCarrier(header)))
	assert.Equal(t, span.SpanContext().TraceID(), extracted.TraceID())
	assert.True(t, extracted.IsRemote())
}
