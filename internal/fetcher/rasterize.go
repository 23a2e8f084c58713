package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultDPI is the rasterization resolution used when none is configured.
const DefaultDPI = 150

// Rasterizer renders each page of a PDF to an image file.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath, outDir string) ([]string, error)
}

// Pdftoppm rasterizes PDFs using the pdftoppm CLI tool.
type Pdftoppm struct {
	binPath   string
	dpi       int
	maxSlides int
}

// NewPdftoppm creates a Pdftoppm rasterizer. If binPath is empty, "pdftoppm"
// is used. maxSlides <= 0 renders every page.
func NewPdftoppm(binPath string, dpi, maxSlides int) *Pdftoppm {
	if binPath == "" {
		binPath = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Pdftoppm{binPath: binPath, dpi: dpi, maxSlides: maxSlides}
}

// Rasterize renders pdfPath into outDir as {stem}_slide_{NNN}.png files and
// returns their paths in page order.
func (p *Pdftoppm) Rasterize(ctx context.Context, pdfPath, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "fetcher: create slide dir %s", outDir)
	}

	prefix := filepath.Join(outDir, "page")
	args := []string{"-r", strconv.Itoa(p.dpi), "-png"}
	if p.maxSlides > 0 {
		args = append(args, "-l", strconv.Itoa(p.maxSlides))
	}
	args = append(args, pdfPath, prefix)

	cmd := exec.CommandContext(ctx, p.binPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "fetcher: pdftoppm failed for %s: %s", pdfPath, strings.TrimSpace(stderr.String()))
	}

	pages, err := renderedPages(prefix)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, eris.Errorf("fetcher: pdftoppm produced no pages for %s", pdfPath)
	}
	if p.maxSlides > 0 && len(pages) > p.maxSlides {
		for _, extra := range pages[p.maxSlides:] {
			_ = os.Remove(extra)
		}
		pages = pages[:p.maxSlides]
	}

	base := filepath.Base(pdfPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	slides := make([]string, len(pages))
	for i, page := range pages {
		slides[i] = filepath.Join(outDir, fmt.Sprintf("%s_slide_%03d.png", stem, i+1))
		if err := os.Rename(page, slides[i]); err != nil {
			return nil, eris.Wrapf(err, "fetcher: rename %s", page)
		}
	}
	return slides, nil
}

// renderedPages lists pdftoppm output for prefix ordered by page number.
// pdftoppm zero-pads page numbers depending on the page count, so the
// numeric suffix is parsed rather than sorted lexically.
func renderedPages(prefix string) ([]string, error) {
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: list rendered pages")
	}
	type numbered struct {
		path string
		n    int
	}
	var pages []numbered
	for _, m := range matches {
		num := strings.TrimSuffix(strings.TrimPrefix(m, prefix+"-"), ".png")
		n, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		pages = append(pages, numbered{path: m, n: n})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].n < pages[j].n })

	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.path
	}
	return out, nil
}
