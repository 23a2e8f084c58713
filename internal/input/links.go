package input

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchpanda/pitchpanda/internal/model"
)

// ExtractLinks returns the URI targets of every link annotation in the PDF,
// deduplicated in first-seen order. The first link is the document's
// masthead and is dropped. Unreadable pages and annotations are skipped;
// only a PDF that cannot be opened is an error.
func ExtractLinks(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: open pdf %s", path)
	}
	defer func() { _ = f.Close() }()

	seen := make(map[string]bool)
	var ordered []string
	for i := 1; i <= pageCount(r); i++ {
		for _, uri := range pageLinks(r, i) {
			if uri == "" || seen[uri] {
				continue
			}
			seen[uri] = true
			ordered = append(ordered, uri)
		}
	}

	if len(ordered) <= 1 {
		return []string{}, nil
	}
	return ordered[1:], nil
}

func pageCount(r *pdf.Reader) (n int) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Warn("input: unreadable page tree", zap.Any("panic", rec))
			n = 0
		}
	}()
	return r.NumPage()
}

// pageLinks collects link URIs from one page. Malformed objects can make
// the pdf package panic, so each page is isolated.
func pageLinks(r *pdf.Reader, num int) (links []string) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Warn("input: skipping unreadable page",
				zap.Int("page", num),
				zap.String("panic", fmt.Sprint(rec)),
			)
		}
	}()

	page := r.Page(num)
	if page.V.IsNull() {
		return nil
	}
	annots := page.V.Key("Annots")
	for j := 0; j < annots.Len(); j++ {
		if uri := annotURI(annots.Index(j)); uri != "" {
			links = append(links, uri)
		}
	}
	return links
}

func annotURI(annot pdf.Value) (uri string) {
	defer func() {
		if rec := recover(); rec != nil {
			uri = ""
		}
	}()
	action := annot.Key("A")
	if action.IsNull() {
		return ""
	}
	return strings.TrimSpace(action.Key("URI").Text())
}

// RecordsFromLinks turns hyperlink targets into startup records named after
// their host. Links without a host and hosts repeating an earlier name or
// slug are dropped.
func RecordsFromLinks(links []string) []model.StartupRecord {
	out := make([]model.StartupRecord, 0, len(links))
	seen := newRecordSet()
	for _, link := range links {
		host := linkHost(link)
		if host == "" {
			continue
		}
		rec := model.StartupRecord{Name: host, URL: link}
		if seen.add(rec) != "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func linkHost(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return ""
	}
	if u.Scheme == "" {
		if u, err = url.Parse("https://" + strings.TrimSpace(link)); err != nil {
			return ""
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
