package model

import (
	"strings"
)

// StartupRecord is one company row from the input file.
type StartupRecord struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Key returns the case-insensitive identity of the record.
func (s StartupRecord) Key() string {
	return strings.ToLower(strings.TrimSpace(s.Name))
}

// Snapshot is the bounded plain-text view of a fetched homepage.
type Snapshot struct {
	URL             string `json:"url"`
	Title           string `json:"title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	Text            string `json:"text"`
	Err             string `json:"error,omitempty"`
}

// Degraded reports whether the fetch failed and Text holds an error
// description instead of page content.
func (s Snapshot) Degraded() bool {
	return s.Err != ""
}

// PromptText renders the snapshot in the layout embedded into prompts.
func (s Snapshot) PromptText() string {
	var b strings.Builder
	if s.Title != "" {
		b.WriteString("Title: ")
		b.WriteString(s.Title)
		b.WriteString("\n\n")
	}
	if s.MetaDescription != "" {
		b.WriteString("Meta Description: ")
		b.WriteString(s.MetaDescription)
		b.WriteString("\n\n")
	}
	b.WriteString("Website Content:\n")
	b.WriteString(s.Text)
	return b.String()
}
