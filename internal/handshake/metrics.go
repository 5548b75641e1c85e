package handshake

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	slogctx "github.com/veqryn/slog-context"
)

const instrumentationName = "github-connect/handshake"

var outcomeCounter = sync.OnceValue(func() metric.Int64Counter {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"handshake.callback_count",
		metric.WithDescription("Completed callback invocations by outcome"),
		metric.WithUnit("callback"),
	)
	if err != nil {
		slogctx.Error(context.Background(), "Failed to create the callback counter", "error", err)
		return nil
	}

	return counter
})

func recordOutcome(ctx context.Context, outcome Outcome) {
	counter := outcomeCounter()
	if counter == nil {
		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(outcome))))
}
