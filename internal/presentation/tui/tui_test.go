package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")

	out := buf.String()
	assert.Contains(t, out, "v1.2.3")
	assert.NotContains(t, out, "\x1b[", "a buffer is not a color terminal")
	assert.Equal(t, 9, strings.Count(out, "\n"))
}

func TestNewRenderer(t *testing.T) {
	plain := NewRenderer(false)
	out, err := plain("| a |\n|---|\n| 1 |\n")
	require.NoError(t, err)
	assert.Equal(t, "| a |\n|---|\n| 1 |\n", out)

	styled := NewRenderer(true)
	out, err = styled("# Title\n\nbody text\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
}

func TestIsTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
}
