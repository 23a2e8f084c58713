package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePdftoppm writes a shell script that mimics pdftoppm by creating the
// given page numbers under the output prefix (the last argument).
func fakePdftoppm(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "pdftoppm")
	script := "#!/bin/sh\nfor last; do :; done\nprefix=\"$last\"\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestPdftoppm_RenamesPagesInNumericOrder(t *testing.T) {
	bin := fakePdftoppm(t, `for n in 10 2 1; do echo "page $n" > "$prefix-$n.png"; done`)
	out := filepath.Join(t.TempDir(), "slides")

	slides, err := NewPdftoppm(bin, 100, 0).Rasterize(context.Background(), "/decks/Acme Deck.pdf", out)
	require.NoError(t, err)

	require.Len(t, slides, 3)
	assert.Equal(t, filepath.Join(out, "Acme Deck_slide_001.png"), slides[0])
	assert.Equal(t, filepath.Join(out, "Acme Deck_slide_002.png"), slides[1])
	assert.Equal(t, filepath.Join(out, "Acme Deck_slide_003.png"), slides[2])

	data, err := os.ReadFile(slides[2])
	require.NoError(t, err)
	assert.Equal(t, "page 10\n", string(data))

	leftovers, err := filepath.Glob(filepath.Join(out, "page-*.png"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestPdftoppm_PassesResolutionAndPageLimit(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	bin := fakePdftoppm(t, `echo "$@" > "`+argsFile+`"; echo x > "$prefix-1.png"`)
	out := t.TempDir()

	_, err := NewPdftoppm(bin, 72, 4).Rasterize(context.Background(), "deck.pdf", out)
	require.NoError(t, err)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "-r 72 -png -l 4 deck.pdf "+filepath.Join(out, "page")+"\n", string(args))
}

func TestPdftoppm_CapsSlides(t *testing.T) {
	bin := fakePdftoppm(t, `for n in 1 2 3 4 5; do echo x > "$prefix-$n.png"; done`)
	out := t.TempDir()

	slides, err := NewPdftoppm(bin, 0, 2).Rasterize(context.Background(), "deck.pdf", out)
	require.NoError(t, err)
	assert.Len(t, slides, 2)

	all, err := filepath.Glob(filepath.Join(out, "*.png"))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPdftoppm_FailureIncludesStderr(t *testing.T) {
	bin := fakePdftoppm(t, `echo "Syntax Error: Couldn't read xref table" >&2; exit 1`)

	_, err := NewPdftoppm(bin, 0, 0).Rasterize(context.Background(), "broken.pdf", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftoppm failed for broken.pdf")
	assert.Contains(t, err.Error(), "Couldn't read xref table")
}

func TestPdftoppm_NoPages(t *testing.T) {
	bin := fakePdftoppm(t, `exit 0`)

	_, err := NewPdftoppm(bin, 0, 0).Rasterize(context.Background(), "empty.pdf", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced no pages")
}

func TestPdftoppm_MissingBinary(t *testing.T) {
	_, err := NewPdftoppm(filepath.Join(t.TempDir(), "nope"), 0, 0).Rasterize(context.Background(), "deck.pdf", t.TempDir())
	assert.Error(t, err)
}

func TestNewPdftoppm_Defaults(t *testing.T) {
	p := NewPdftoppm("", 0, 0)
	assert.Equal(t, "pdftoppm", p.binPath)
	assert.Equal(t, DefaultDPI, p.dpi)
}
