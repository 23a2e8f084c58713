package input

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeCSV writes content to a temp file and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "startups.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeLinkPDF builds a minimal PDF whose pages carry URI link annotations.
// An empty URI produces an annotation without an action.
func writeLinkPDF(t *testing.T, pages [][]string) string {
	t.Helper()

	var objects []string
	add := func(body string) int {
		objects = append(objects, body)
		return len(objects)
	}

	catalog := add("") // placeholder, filled once the page tree exists
	pagesID := add("")
	var kids []string
	for _, uris := range pages {
		var annots []string
		for _, uri := range uris {
			var id int
			if uri == "" {
				id = add("<< /Type /Annot /Subtype /Text /Rect [0 0 10 10] >>")
			} else {
				id = add(fmt.Sprintf("<< /Type /Annot /Subtype /Link /Rect [0 0 10 10] /A << /S /URI /URI (%s) >> >>", uri))
			}
			annots = append(annots, fmt.Sprintf("%d 0 R", id))
		}
		pageID := add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Annots [%s] >>",
			pagesID, strings.Join(annots, " ")))
		kids = append(kids, fmt.Sprintf("%d 0 R", pageID))
	}
	objects[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesID)
	objects[pagesID-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, catalog, xref)

	path := filepath.Join(t.TempDir(), "links.pdf")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}
