// Package render turns analysis records into markdown documents. Every
// renderer is total: nil or empty records still produce a readable page.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pitchpanda/pitchpanda/internal/model"
)

// NotSpecified stands in for absent optional values.
const NotSpecified = "Not specified"

// nullish are spellings of "no value" that must never reach a page.
var nullish = map[string]bool{"none": true, "null": true, "nil": true, "<nil>": true}

// value returns s trimmed, or NotSpecified when s is blank or a null
// spelling.
func value(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || nullish[strings.ToLower(s)] {
		return NotSpecified
	}
	return s
}

// present reports whether s carries a real value.
func present(s string) bool {
	return value(s) != NotSpecified
}

// bullets writes one "- item" line per present item, or empty when there
// are none.
func bullets(b *strings.Builder, items []string, empty string) {
	n := 0
	for _, it := range items {
		if !present(it) {
			continue
		}
		fmt.Fprintf(b, "- %s\n", strings.TrimSpace(it))
		n++
	}
	if n == 0 && empty != "" {
		fmt.Fprintf(b, "- %s\n", empty)
	}
}

// truncate shortens s to at most n runes, ending with an ellipsis when cut.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

// titleCase turns "market_size" into "Market Size".
func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// confidenceEmoji maps a confidence grade onto its marker. Unknown grades
// read as medium.
func confidenceEmoji(c model.Confidence) string {
	switch model.NormalizeConfidence(c, model.ConfidenceMedium) {
	case model.ConfidenceHigh:
		return "🟢"
	case model.ConfidenceLow:
		return "🔴"
	default:
		return "🟡"
	}
}

// Heading is one heading of a rendered document.
type Heading struct {
	Level int
	Text  string
}

// Outline parses markdown and returns its headings in document order.
func Outline(md string) []Heading {
	src := []byte(md)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var out []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		out = append(out, Heading{Level: h.Level, Text: nodeText(h, src)})
		return ast.WalkSkipChildren, nil
	})
	return out
}

func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
