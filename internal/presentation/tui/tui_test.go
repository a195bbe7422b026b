package tui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_KeepsText(t *testing.T) {
	render, err := NewRenderer(0)
	require.NoError(t, err)

	out, err := render("🚆 Ida 24-12-2026\n07:00 → 09:32")
	require.NoError(t, err)
	assert.Contains(t, out, "Ida 24-12-2026")
	assert.Contains(t, out, "09:32")
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.False(t, strings.HasSuffix(out, "\n\n"))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)

	// A buffer is not a terminal, so no escape sequences are written.
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), `|_|  \___|_| |_|_|`)
}

func TestWidth_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsInteractive(f))
	assert.Equal(t, defaultWidth, Width(f))
}
