package merge

import (
	"fmt"
	"strings"
)

// TaskMerge opens the merge prompt. Offline stubs route on it.
const TaskMerge = "TASK: MERGE ANALYSES"

// mergePrompt args: company name, deck section, web section.
const mergePrompt = TaskMerge + `

Company: %s

%s

%s

Merge the two analyses above into one JSON object.`

// mergeSystem holds the instructions shared by every merge call.
const mergeSystem = `You are an analyst building the definitive overview of a company by merging
two analyses: a pitch deck analysis and a web analysis. Either may be missing.

Rules:
- Combine everything relevant from both sources. Keep specifics such as
  numbers, names and dates instead of summarizing them away.
- Tag every sourced fact with "source": "pitch deck", "web analysis" or "both".
- tam, sam, som and revenue are sourced facts. Only when both sources give a
  figure and the figures differ, use the conflict shape instead: the deck
  figure in pitch_deck_info, the web figure in web_info and a short note
  explaining the difference. Figures both sources agree on are tagged "both".
- Keep the web and deck framings of problem and solution apart:
  problem_web is the general problem from the web analysis, problem_example_web
  its example scenario, problem_deck the more specific deck detail. The same
  split applies to solution_web, solution_example_web and solution_deck.
- Include every team member and every competitor mentioned in either source.
- Keep current metrics and projections apart.
- Leave a field out when neither source covers it. Never invent information.

Reply with JSON only, no prose, in this shape (a sourced fact is
{"content": "...", "source": "..."} and a conflict is
{"pitch_deck_info": "...", "web_info": "...", "note": "..."}):
{
  "company_overview": {
    "name": "Company",
    "website": "https://...",
    "tagline": sourced, "description": sourced, "sector": sourced, "locations": sourced
  },
  "problem_solution": {
    "problem_web": sourced, "problem_example_web": sourced, "problem_deck": sourced,
    "solution_web": sourced, "solution_example_web": sourced, "solution_deck": sourced,
    "value_proposition": sourced, "product_type": sourced, "how_it_works": sourced
  },
  "market": {
    "target_market": sourced,
    "tam": sourced or conflict, "sam": sourced or conflict, "som": sourced or conflict,
    "market_insights": [sourced]
  },
  "business_model": {
    "overview": sourced, "revenue_model": sourced, "pricing": sourced,
    "customer_acquisition": sourced, "partnerships": sourced, "distribution": sourced
  },
  "team": [{"name": "...", "role": "...", "background": "...", "source": "..."}],
  "financials": {
    "funding_raised": [sourced],
    "funding_seeking": sourced,
    "revenue": sourced or conflict,
    "traction_metrics": [sourced],
    "projections": [sourced]
  },
  "competitors": [{"name": "...", "website": "...", "similarities": "...", "differences": "...", "source": "..."}],
  "competitive_advantages": [{"type": "patent | network effects | proprietary tech | ...", "description": "...", "status": "granted | pending | ...", "source": "..."}],
  "technology": sourced,
  "go_to_market": sourced,
  "awards_recognition": [sourced],
  "customer_evidence": [sourced],
  "additional_insights": [sourced],
  "deck_completeness_notes": "what the deck analysis said was missing"
}`

func section(title, body string) string {
	if strings.TrimSpace(body) == "" {
		return "# " + title + ": Not available"
	}
	return fmt.Sprintf("# %s:\n```\n%s\n```", title, strings.TrimSpace(body))
}

func buildPrompt(companyName, webText, deckText string) string {
	return fmt.Sprintf(mergePrompt,
		companyName,
		section("PITCH DECK ANALYSIS", deckText),
		section("WEB ANALYSIS", webText),
	)
}
