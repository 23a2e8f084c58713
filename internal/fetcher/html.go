package fetcher

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

const (
	minBlockChars = 20
	maxBlocks     = 50
	blockSelector = "h1, h2, h3, p, li"
	noiseSelector = "script, style, nav, footer, header, noscript, iframe, svg"
)

// NoReadableText replaces the body text of pages with no usable blocks.
const NoReadableText = "(No readable text found on homepage.)"

// page is the parsed view of one HTML document.
type page struct {
	Title           string
	MetaDescription string
	Text            string
}

// parsePage extracts the title, meta description and readable body text.
// Body text is the h1-h3, p and li blocks of main or article. Pages with
// neither use the readability main content and then the whole body.
func parsePage(body []byte, pageURL string, maxChars int) (page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return page{}, err
	}

	p := page{Title: collapse(doc.Find("title").First().Text())}
	p.MetaDescription = strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	if p.MetaDescription == "" {
		p.MetaDescription = strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
	}

	doc.Find(noiseSelector).Remove()

	var blocks []string
	switch root := doc.Find("main, article").First(); {
	case root.Length() > 0:
		blocks = textBlocks(root)
	default:
		blocks = readabilityBlocks(body, pageURL)
		if len(blocks) == 0 {
			blocks = textBlocks(doc.Find("body"))
		}
	}

	if len(blocks) == 0 {
		p.Text = NoReadableText
		return p, nil
	}
	p.Text = truncateRunes(strings.Join(blocks, "\n"), maxChars)
	return p, nil
}

func textBlocks(root *goquery.Selection) []string {
	var blocks []string
	root.Find(blockSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := collapse(s.Text())
		if utf8.RuneCountInString(text) > minBlockChars {
			blocks = append(blocks, text)
		}
		return len(blocks) < maxBlocks
	})
	return blocks
}

func readabilityBlocks(body []byte, pageURL string) []string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		zap.L().Debug("fetcher: readability failed", zap.String("url", pageURL), zap.Error(err))
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil
	}
	doc.Find(noiseSelector).Remove()
	return textBlocks(doc.Selection)
}

// collapse trims s and folds internal whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateRunes cuts s to at most n runes. Non-positive n disables the cap.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
