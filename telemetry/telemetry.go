// Package telemetry provides hierarchical timing collection for operations.
// It allows tracking operation durations in a tree structure for detailed
// performance analysis.
//
// The telemetry system uses the context pattern for non-intrusive instrumentation.
// Collectors are passed through context and can be enabled/disabled without
// changing function signatures.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	journal, err := hledger.ParseFile(ctx, "main.journal")
//
//	collector.Report(os.Stderr, output.NewStyles(os.Stderr))
//
// The loader and parser time every file they read and parse, so the report shows
// one node per included file, nested the way the includes are.
package telemetry

import (
	"context"
	"io"

	"github.com/robinvdvleuten/hledger/output"
)

type contextKey int

const (
	collectorKey contextKey = iota
	timerKey
)

// Collector is the main interface for collecting telemetry data.
// Implementations can collect timings, metrics, or other telemetry data.
type Collector interface {
	// Start begins timing an operation and returns a Timer.
	// The timer should be ended with End() when the operation completes.
	Start(name string) Timer

	// Report writes the collected telemetry to w, styled when styles is not nil.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation's timing.
// Timers support hierarchical nesting via Child().
type Timer interface {
	// End stops the timer and records the duration.
	End()

	// Child creates a nested timer under this timer.
	// The child timer will appear nested in the output.
	Child(name string) Timer
}

// WithCollector adds a collector to a context.
// The collector can be retrieved later with FromContext.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context.
// If no collector is present, returns a NoOpCollector that does nothing.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// WithTimer stores timer in the context so that StartTimer nests under it.
func WithTimer(ctx context.Context, timer Timer) context.Context {
	return context.WithValue(ctx, timerKey, timer)
}

// StartTimer starts a timer named name. It nests under the timer stored with
// WithTimer when there is one, and otherwise starts on the context's collector.
func StartTimer(ctx context.Context, name string) Timer {
	if parent, ok := ctx.Value(timerKey).(Timer); ok {
		return parent.Child(name)
	}
	return FromContext(ctx).Start(name)
}
