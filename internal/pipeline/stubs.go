package pipeline

import (
	"context"
	"strings"

	"github.com/pitchpanda/pitchpanda/internal/evaluate"
	"github.com/pitchpanda/pitchpanda/internal/extract"
	"github.com/pitchpanda/pitchpanda/internal/merge"
	"github.com/pitchpanda/pitchpanda/pkg/anthropic"
)

var _ anthropic.Client = (*StubAnthropicClient)(nil)

// stubReplies maps each prompt's task header to its canned reply.
var stubReplies = map[string]string{
	extract.TaskWebProfile: `{
  "company_summary": "Stub company summary generated offline.",
  "problem": {"general": "Stub problem statement.", "example": "Stub problem example."},
  "solution": {"what_it_is": "Stub product.", "how_it_works": "Stub mechanism.", "example": "Stub usage example."},
  "product_type": "SaaS",
  "sector": "Software",
  "subsector": "Developer Tools",
  "active_locations": ["United States"],
  "sources": []
}`,
	extract.TaskCompetitors: `{"competition": [
  {"name": "Stub Rival", "website": "https://rival.example", "product_type": "SaaS",
   "problem_similarity": "Same customer problem.", "solution_summary": "A comparable product.",
   "similarities": ["Same buyer"], "differences": ["Older stack"],
   "active_locations": ["United States"], "sources": ["https://rival.example"], "confidence": "medium"}
]}`,
	extract.TaskMarketSize: `{
  "tam": {"value": "$1B", "formula": "10,000 buyers x $100K", "assumptions": ["Stub assumption"], "unit": "USD/year"},
  "sam": {"value": "$200M", "formula": "20% of TAM", "assumptions": ["Stub assumption"], "unit": "USD/year"},
  "som": {"value": "$10M", "formula": "5% of SAM", "assumptions": ["Stub assumption"], "unit": "USD/year"},
  "calculation_note": "Offline stub estimate."
}`,
	extract.TaskDeckReview: `{
  "deck_name": "Stub Deck",
  "total_slides": 1,
  "problem_statement": "Stub deck problem.",
  "solution_overview": "Stub deck solution.",
  "metrics": {"traction": [{"label": "Pilots", "value": "3", "is_projection": false, "confidence": "high"}]},
  "funding_details": [],
  "team": [{"name": "Stub Founder", "role": "CEO", "background": "Stub background"}],
  "competitive_advantages": [],
  "awards_and_grants": [],
  "competition_mentioned": [],
  "projection_analysis": [],
  "facts": ["Stub fact"],
  "storytelling": [],
  "observations": ["Offline stub analysis"],
  "unlabeled_claims": [],
  "slides": [{"slide_number": 1, "slide_title": "Intro", "key_points": ["Stub point"]}],
  "present_elements": ["Problem", "Solution", "Team"],
  "missing_elements": ["Financials"]
}`,
	merge.TaskMerge: `{
  "company_overview": {
    "tagline": {"content": "Stub tagline.", "source": "both"},
    "description": {"content": "Stub company summary generated offline.", "source": "web"}
  },
  "problem_solution": {
    "problem_web": {"content": "Stub problem statement.", "source": "web"},
    "solution_web": {"content": "Stub product.", "source": "web"}
  },
  "market": {
    "tam": {"content": "$1B", "source": "web analysis"}
  },
  "team": [],
  "competitors": [{"name": "Stub Rival", "differences": "Older stack", "source": "web"}],
  "additional_insights": [{"content": "Offline stub merge.", "source": "both"}]
}`,
	evaluate.TaskEvaluation: `{
  "team": {"name": "Team", "score": 3, "reasoning": "Stub reasoning."},
  "technology": {"name": "Technology", "score": 3, "reasoning": "Stub reasoning."},
  "market": {"name": "Market", "score": 3, "reasoning": "Stub reasoning."},
  "value_proposition": {"name": "Value Proposition", "score": 3, "reasoning": "Stub reasoning."},
  "competitive_advantage": {"name": "Competitive Advantage", "score": 3, "reasoning": "Stub reasoning."},
  "social_impact": {"name": "Social Impact", "score": 3, "reasoning": "Stub reasoning."},
  "overall_score": 3.0,
  "competitor_groups": [{"group_name": "Direct", "competitors": ["Stub Rival"], "characteristics": "Same buyer"}],
  "comments": "Offline stub evaluation."
}`,
}

// StubAnthropicClient implements anthropic.Client with canned responses
// keyed on the task header that opens every prompt.
type StubAnthropicClient struct{}

// CreateMessage implements anthropic.Client.
func (s *StubAnthropicClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	content := ""
	for _, m := range req.Messages {
		content += m.Content
	}

	header, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	responseText, ok := stubReplies[strings.TrimSpace(header)]
	if !ok {
		responseText = `{}`
	}

	return &anthropic.MessageResponse{
		ID:         "stub-msg-001",
		Model:      req.Model,
		Content:    []anthropic.ContentBlock{{Type: "text", Text: responseText}},
		StopReason: "end_turn",
		Usage: anthropic.TokenUsage{
			InputTokens:  150,
			OutputTokens: 50,
		},
	}, nil
}
