package extract

// Task headers open every prompt. Offline stubs route on them.
const (
	TaskWebProfile  = "TASK: WEB PROFILE"
	TaskCompetitors = "TASK: COMPETITOR SCAN"
	TaskMarketSize  = "TASK: MARKET SIZING"
	TaskDeckReview  = "TASK: PITCH DECK REVIEW"
)

// webPrompt args: startup name, startup URL, snapshot prompt text.
const webPrompt = TaskWebProfile + `

You are a venture analyst screening startups. Read the homepage content below
and describe the company in short, plain language. Base every statement on the
page. When the page does not say something, write "Unknown" rather than guess.

Startup: %s
URL: %s

%s

Reply with JSON only, no prose, in this shape:
{
  "company_summary": "two or three sentences on what the company does",
  "problem": {
    "general": "the customer problem in one or two sentences",
    "example": "a concrete situation where the problem shows up"
  },
  "solution": {
    "what_it_is": "the product in one sentence",
    "how_it_works": "the mechanism in one or two sentences",
    "example": "a concrete example of the product in use"
  },
  "product_type": "SaaS | App | Platform | API | Service | Hardware | Marketplace | Other",
  "sector": "broad industry",
  "subsector": "specific niche",
  "active_locations": ["country, region or city where they operate"],
  "sources": ["URLs the statements are based on"]
}`

// competitorPrompt args: name, URL, problem general, problem example,
// solution what, solution how, solution example, product type, sector,
// subsector, locations.
const competitorPrompt = TaskCompetitors + `

You are an evidence-driven analyst. Using the validated profile below, list
five to ten startups that solve nearly the same customer problem. Only include
companies with public evidence (product pages, docs, case studies, pricing)
for the overlap. Return fewer entries rather than inventing any.

Target startup: %s (%s)
Problem (general): %s
Problem (example): %s
Solution (what it is): %s
Solution (how it works): %s
Solution (example): %s
Product type: %s
Sector / subsector: %s / %s
Active locations: %s

Rules:
- problem_similarity ties the competitor directly to the target's problem.
- similarities and differences are short bullets with an evidence marker,
  for example "same ICP (homepage hero)".
- confidence is "high" when the competitor states the same problem or ICP,
  "medium" when inferred from case studies or posts, "low" when evidence is thin.
- sources lists the exact pages used. Deduplicate by company domain.

Reply with JSON only:
{
  "competition": [
    {
      "name": "Company",
      "website": "https://...",
      "product_type": "SaaS | App | Platform | API | Service | Hardware | Marketplace | Other",
      "sector": "broad industry",
      "subsector": "specific niche",
      "problem_similarity": "one or two lines",
      "solution_summary": "two to four lines",
      "similarities": ["..."],
      "differences": ["..."],
      "active_locations": ["..."],
      "sources": ["https://..."],
      "confidence": "high | medium | low",
      "why_included": "one line"
    }
  ]
}`

// marketSizePrompt args: name, URL, problem general, problem example,
// solution what, solution how, product type, sector, subsector, locations.
const marketSizePrompt = TaskMarketSize + `

You are a quantitative analyst. Build a bottom-up TAM, SAM and SOM estimate for
the startup below. Every figure needs an explicit formula: pick the customer
unit, estimate how many exist, estimate annual value per unit, and multiply.

Target startup: %s (%s)
Problem (general): %s
Problem (example): %s
Solution (what it is): %s
Solution (how it works): %s
Product type: %s
Sector / subsector: %s / %s
Active locations: %s

Definitions:
- TAM: global demand with full capture and no constraints.
- SAM: the subset reachable given geography, product fit or segment.
- SOM: realistic capture within one to three years, typically 0.5-3%% of SAM.

Do not inflate numbers. If data is missing, state the assumption and say the
estimate is low confidence in calculation_note.

Reply with JSON only:
{
  "tam": {"value": "$X.XB", "formula": "units x value per unit = result", "assumptions": ["..."], "unit": "..."},
  "sam": {"value": "$XXM", "formula": "...", "assumptions": ["..."], "unit": "..."},
  "som": {"value": "$XM", "formula": "SAM x share = result", "assumptions": ["..."], "unit": "..."},
  "calculation_note": "two or three sentences on confidence, data quality and risks"
}`

// deckPrompt args: slide count.
const deckPrompt = TaskDeckReview + `

The attached images are the %d slides of a startup pitch deck, in order.
Extract everything the deck states and grade how trustworthy each item is.
Separate verifiable facts from storytelling, and current figures from
projections. Keep every number even when its label is vague, and note the
doubt in brackets, for example "(label unclear)" or "(claim unverified)".
Present competition as the deck shows it; it may be biased.

Confidence for metrics and advantages is "high" when explicitly stated with
evidence, "medium" when inferred from context, "low" when vague or unverifiable.
Monetary values stay as written on the slide.

Reply with JSON only:
{
  "deck_name": "company or deck title",
  "problem_statement": "...",
  "solution_overview": "...",
  "value_proposition": "...",
  "target_market": "...",
  "business_model": "how they make money",
  "business_model_details": {
    "revenue_model": "...", "pricing_structure": "...", "customer_acquisition": "...",
    "sales_cycle": "...", "partnerships": ["..."], "distribution_channels": ["..."],
    "expansion_strategy": "...", "notes": ["..."]
  },
  "metrics": {
    "funding": [{"label": "Seed", "value": "$1.5M", "context": "...", "is_projection": false, "confidence": "high", "notes": "..."}],
    "traction": [], "market_size": [], "financials": [], "lois": []
  },
  "funding_details": [{"type": "seed | series_a | grant | safe | ...", "amount": "...", "date": "...", "investors": ["..."], "is_non_dilutive": false, "valuation": "...", "notes": "..."}],
  "team": [{"name": "...", "role": "...", "background": "..."}],
  "competitive_advantages": [{"category": "patent_secured | patent_pending | exclusive_partnership | regulatory_approval | proprietary_technology | other", "description": "...", "status": "...", "details": "...", "confidence": "high"}],
  "awards_and_grants": [{"type": "grant | accelerator | award | competition_win", "name": "...", "amount": "...", "year": "...", "organization": "...", "is_non_dilutive": true}],
  "competition_mentioned": ["..."],
  "competition_note": "Competition as presented in deck may be biased",
  "projection_analysis": [{"metric_name": "...", "current_value": "...", "projected_value": "...", "timeframe": "...", "assumptions_stated": ["..."], "realism_assessment": "...", "supporting_evidence": ["..."], "flags": ["..."]}],
  "facts": ["verifiable statements with slide references"],
  "storytelling": ["marketing claims without evidence"],
  "observations": ["neutral observations about the deck"],
  "unlabeled_claims": ["claims or charts missing labels"],
  "slides": [{"slide_number": 1, "slide_title": "...", "key_points": ["..."], "visual_elements": "..."}],
  "present_elements": ["standard deck sections that are present"],
  "missing_elements": ["standard deck sections that are missing"],
  "data_quality_notes": "overall note on data quality"
}`
