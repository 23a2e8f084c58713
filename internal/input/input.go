// Package input loads startup records from CSV files and link-bearing PDFs.
package input

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchpanda/pitchpanda/internal/model"
	"github.com/pitchpanda/pitchpanda/internal/slug"
)

// ErrEmptyInput is returned when a source yields no valid startup.
var ErrEmptyInput = eris.New("input: no valid startup entries found")

// Skip reasons recorded in LoadResult.Skipped.
const (
	ReasonTooFewColumns = "fewer than two columns"
	ReasonEmptyName     = "empty name"
	ReasonEmptyURL      = "empty url"
	ReasonDuplicate     = "duplicate"
	ReasonDuplicateSlug = "duplicate slug"
)

var (
	nameHeaders = []string{"startup_name", "name", "company", "company_name"}
	urlHeaders  = []string{"startup_url", "url", "website", "company_url"}
)

// SkippedRow records an input row that did not produce a record.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// LoadResult is the outcome of reading a startup list.
type LoadResult struct {
	Records   []model.StartupRecord `json:"records"`
	Skipped   []SkippedRow          `json:"skipped"`
	HasHeader bool                  `json:"has_header"`
}

// LoadStartups reads startup name and URL pairs from a CSV file. A header
// row is detected by its labels; without one the first two columns are
// name and URL. Invalid and duplicate rows are skipped and reported. Names
// that differ but share a slug would share an output directory, so only the
// first of them is kept.
func LoadStartups(ctx context.Context, path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: open %s", path)
	}
	defer func() { _ = f.Close() }()

	rowCh, errCh := StreamCSV(ctx, f, CSVOptions{LazyQuotes: true, TrimSpace: true})

	res := &LoadResult{Records: []model.StartupRecord{}, Skipped: []SkippedRow{}}
	seen := newRecordSet()
	nameCol, urlCol := 0, 1
	first := true

	for row := range rowCh {
		fields := row.Fields
		if first {
			first = false
			if len(fields) > 0 {
				fields[0] = strings.TrimPrefix(fields[0], "\ufeff")
			}
			if n, u, ok := detectHeader(fields); ok {
				nameCol, urlCol = n, u
				res.HasHeader = true
				continue
			}
		}

		if len(fields) < 2 || len(fields) <= max(nameCol, urlCol) {
			res.skip(row.Line, ReasonTooFewColumns)
			continue
		}
		name := strings.TrimSpace(fields[nameCol])
		url := strings.TrimSpace(fields[urlCol])
		switch {
		case name == "":
			res.skip(row.Line, ReasonEmptyName)
			continue
		case url == "":
			res.skip(row.Line, ReasonEmptyURL)
			continue
		}

		rec := model.StartupRecord{Name: name, URL: url}
		if reason := seen.add(rec); reason != "" {
			res.skip(row.Line, reason)
			continue
		}
		res.Records = append(res.Records, rec)
	}

	for err := range errCh {
		if err != nil {
			return nil, eris.Wrapf(err, "input: read %s", path)
		}
	}

	if len(res.Records) == 0 {
		return res, ErrEmptyInput
	}

	zap.L().Info("input: startups loaded",
		zap.String("path", path),
		zap.Int("records", len(res.Records)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Bool("header", res.HasHeader),
	)
	return res, nil
}

// recordSet tracks accepted records by name and by output slug.
type recordSet struct {
	keys  map[string]bool
	slugs map[string]string
}

func newRecordSet() *recordSet {
	return &recordSet{keys: make(map[string]bool), slugs: make(map[string]string)}
}

// add records rec and returns "", or the reason rec must be skipped.
func (s *recordSet) add(rec model.StartupRecord) string {
	if s.keys[rec.Key()] {
		return ReasonDuplicate
	}
	sl := slug.Make(rec.Name)
	if first, taken := s.slugs[sl]; taken {
		zap.L().Warn("input: name collides with an earlier slug",
			zap.String("name", rec.Name),
			zap.String("first", first),
			zap.String("slug", sl),
		)
		return ReasonDuplicateSlug
	}
	s.keys[rec.Key()] = true
	s.slugs[sl] = rec.Name
	return ""
}

func (r *LoadResult) skip(line int, reason string) {
	zap.L().Warn("input: skipping row",
		zap.Int("row", line),
		zap.String("reason", reason),
	)
	r.Skipped = append(r.Skipped, SkippedRow{Row: line, Reason: reason})
}

// detectHeader returns the name and URL column indexes when every one of
// them is found among the row's labels.
func detectHeader(fields []string) (int, int, bool) {
	nameCol, urlCol := -1, -1
	for i, f := range fields {
		label := strings.ToLower(strings.TrimSpace(f))
		if nameCol < 0 && slices.Contains(nameHeaders, label) {
			nameCol = i
		}
		if urlCol < 0 && slices.Contains(urlHeaders, label) {
			urlCol = i
		}
	}
	if nameCol < 0 || urlCol < 0 {
		return 0, 0, false
	}
	return nameCol, urlCol, true
}
