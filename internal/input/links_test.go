package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchpanda/pitchpanda/internal/model"
)

func TestExtractLinks(t *testing.T) {
	path := writeLinkPDF(t, [][]string{
		{"https://masthead.example", "https://acme.io", "https://beta.io"},
		{"https://beta.io", "", "https://gamma.io"},
		{},
	})

	links, err := ExtractLinks(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://acme.io", "https://beta.io", "https://gamma.io"}, links)
}

func TestExtractLinks_OnlyMasthead(t *testing.T) {
	path := writeLinkPDF(t, [][]string{{"https://masthead.example"}})

	links, err := ExtractLinks(path)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestExtractLinks_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a pdf"), 0o644))

	_, err := ExtractLinks(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input: open pdf")
}

func TestExtractLinks_MissingFile(t *testing.T) {
	_, err := ExtractLinks(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestRecordsFromLinks(t *testing.T) {
	recs := RecordsFromLinks([]string{
		"https://www.Acme.io/about",
		"acme.io",
		"mailto:founder@beta.io",
		"http://beta.io",
		"",
	})

	assert.Equal(t, []model.StartupRecord{
		{Name: "acme.io", URL: "https://www.Acme.io/about"},
		{Name: "beta.io", URL: "http://beta.io"},
	}, recs)
}

func TestRecordsFromLinks_DropsSlugCollisions(t *testing.T) {
	recs := RecordsFromLinks([]string{"https://acme.io", "https://acme-io/", "https://beta.io"})

	assert.Equal(t, []model.StartupRecord{
		{Name: "acme.io", URL: "https://acme.io"},
		{Name: "beta.io", URL: "https://beta.io"},
	}, recs)
}
