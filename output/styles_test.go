package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNewStylesNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.False(t, IsTerminal(&buf))
	assert.False(t, styles.Colored())
	assert.Equal(t, "assets:cash", styles.Account("assets:cash"))
	assert.Equal(t, "$100", styles.Amount("$100"))
}

func TestColorModes(t *testing.T) {
	var buf bytes.Buffer

	always := NewStylesWithMode(&buf, ColorAlways)
	assert.True(t, always.Colored())
	styled := always.Account("assets:cash")
	assert.Contains(t, styled, "assets:cash")
	assert.True(t, strings.Contains(styled, "\x1b["))

	never := NewStylesWithMode(&buf, ColorNever)
	assert.False(t, never.Colored())
	assert.Equal(t, "assets:cash", never.Account("assets:cash"))
}

func TestStylesKeepText(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStylesWithMode(&buf, ColorAlways)

	for _, render := range []func(string) string{
		styles.Account,
		styles.Amount,
		styles.Keyword,
		styles.Dim,
	} {
		assert.Contains(t, render("text"), "text")
	}
	assert.Contains(t, styles.Timing("12ms", true), "12ms")
	assert.Contains(t, styles.Timing("12ms", false), "12ms")
}
