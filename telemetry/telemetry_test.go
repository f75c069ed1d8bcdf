package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/hledger/output"
)

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	collector := FromContext(context.Background())
	_, ok := collector.(noOpCollector)
	assert.True(t, ok)

	var buf bytes.Buffer
	timer := collector.Start("test")
	timer.Child("child").End()
	timer.End()
	collector.Report(&buf, nil)
	assert.Equal(t, 0, buf.Len())
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	retrieved, ok := FromContext(ctx).(*TimingCollector)
	assert.True(t, ok)
	assert.True(t, retrieved == collector)
}

func TestStartNestsUnderRunningTimer(t *testing.T) {
	collector := NewTimingCollector()

	load := collector.Start("load")
	parse := collector.Start("parse main")
	include := collector.Start("parse included")
	include.End()
	parse.End()
	assemble := collector.Start("assemble")
	assemble.End()
	load.End()

	assert.Equal(t, []string{"load", "parse main", "parse included", "assemble"}, collector.Names())

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 4, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "load: "))
	assert.True(t, strings.HasPrefix(lines[1], "├─ parse main: "))
	assert.True(t, strings.HasPrefix(lines[2], "│  └─ parse included: "))
	assert.True(t, strings.HasPrefix(lines[3], "└─ assemble: "))
}

func TestStartTimerUsesContextTimer(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	root := StartTimer(ctx, "root")
	child := StartTimer(WithTimer(ctx, root), "child")
	child.End()
	root.End()

	sibling := StartTimer(ctx, "sibling")
	sibling.End()

	assert.Equal(t, []string{"root", "child", "sibling"}, collector.Names())
}

func TestEndTwiceIsHarmless(t *testing.T) {
	collector := NewTimingCollector()
	outer := collector.Start("outer")
	inner := collector.Start("inner")
	inner.End()
	inner.End()
	outer.End()

	next := collector.Start("next")
	next.End()
	assert.Equal(t, []string{"outer", "inner", "next"}, collector.Names())
}

func TestReportWithStyles(t *testing.T) {
	collector := NewTimingCollector()
	timer := collector.Start("Operation")
	timer.Child("Nested").End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, output.NewStyles(&buf))
	assert.Contains(t, buf.String(), "Operation")
	assert.Contains(t, buf.String(), "Nested")
	assert.Contains(t, buf.String(), "ms")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "5ms", formatDuration(5_000_000))
	assert.Equal(t, "1.50s", formatDuration(1_500_000_000))
}
