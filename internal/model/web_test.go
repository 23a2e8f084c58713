package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeConfidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Confidence
		def  Confidence
		want Confidence
	}{
		{"high", ConfidenceMedium, ConfidenceHigh},
		{" MEDIUM ", ConfidenceHigh, ConfidenceMedium},
		{"Low", ConfidenceMedium, ConfidenceLow},
		{"very sure", ConfidenceMedium, ConfidenceMedium},
		{"", ConfidenceHigh, ConfidenceHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeConfidence(tt.in, tt.def), "NormalizeConfidence(%q)", tt.in)
	}
}

func TestCleanListAndDedupe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{}, CleanList(nil))
	assert.Equal(t, []string{"a", "b"}, CleanList([]string{" a ", "", "  ", "b"}))
	assert.Equal(t, []string{"https://acme.test/", "x"}, Dedupe([]string{"https://acme.test/", "https://acme.test", "x", "x"}))
}

func TestWebAnalysis_Normalize(t *testing.T) {
	t.Parallel()

	w := &WebAnalysis{
		ActiveLocations: []string{" US ", ""},
		Sources:         []string{"https://acme.test/about", "https://acme.test/"},
		Competition:     []Competitor{{Name: " Carbon ", Confidence: "HIGH", Similarities: []string{""}}},
		MarketSize:      &MarketSize{},
	}
	w.Normalize("https://acme.test")

	assert.Equal(t, []string{"US"}, w.ActiveLocations)
	assert.Equal(t, []string{"https://acme.test/about", "https://acme.test/"}, w.Sources)
	assert.Equal(t, "Carbon", w.Competition[0].Name)
	assert.Equal(t, ConfidenceHigh, w.Competition[0].Confidence)
	assert.Equal(t, []string{}, w.Competition[0].Similarities)
	assert.Nil(t, w.MarketSize)
	assert.NotNil(t, w.DataQualityNotes)
}

func TestWebAnalysis_NormalizeFillsNilLists(t *testing.T) {
	t.Parallel()

	w := &WebAnalysis{}
	w.Normalize("")
	assert.Equal(t, []string{}, w.Sources)
	assert.Equal(t, []Competitor{}, w.Competition)
	assert.Equal(t, []string{}, w.ActiveLocations)
}
