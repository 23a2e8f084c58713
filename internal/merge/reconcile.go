package merge

import (
	"strings"

	"github.com/pitchpanda/pitchpanda/internal/model"
)

// inputs records which analyses were supplied to the merge.
type inputs struct {
	web  bool
	deck bool
}

// side is the single supplied source, or both.
func (in inputs) side() model.Source {
	switch {
	case in.web && !in.deck:
		return model.SourceWeb
	case in.deck && !in.web:
		return model.SourceDeck
	default:
		return model.SourceBoth
	}
}

// resolve maps a source tag from the reply onto a tag the inputs allow.
func (in inputs) resolve(tag model.Source) model.Source {
	if in.web != in.deck {
		return in.side()
	}
	if s, ok := model.ParseSource(string(tag)); ok {
		return s
	}
	return model.SourceBoth
}

// normalizeKeys renames top-level keys the reply sometimes spells
// differently.
func normalizeKeys(raw map[string]any) {
	if _, ok := raw["financials"]; !ok {
		if v, ok := raw["financial_data"]; ok {
			raw["financials"] = v
			delete(raw, "financial_data")
		}
	}
}

// reconcile rewrites provenance so every tag names a supplied input and
// settles disputed figures.
func reconcile(m *model.MergedAnalysis, in inputs) {
	for _, f := range m.SourcedFields() {
		if *f != nil {
			(*f).Source = in.resolve((*f).Source)
		}
	}
	for _, list := range m.SourcedLists() {
		for i := range list {
			list[i].Source = in.resolve(list[i].Source)
		}
	}
	for i := range m.Team {
		m.Team[i].Source = in.resolve(m.Team[i].Source)
	}
	for i := range m.Competitors {
		m.Competitors[i].Source = in.resolve(m.Competitors[i].Source)
	}
	for i := range m.CompetitiveAdvantages {
		m.CompetitiveAdvantages[i].Source = in.resolve(m.CompetitiveAdvantages[i].Source)
	}

	for _, f := range m.MarketFacts() {
		*f = settleFact(*f, in)
	}
}

// settleFact keeps a conflict only when both inputs were supplied and their
// figures differ. Anything else collapses to a sourced fact.
func settleFact(f *model.MarketFact, in inputs) *model.MarketFact {
	if !f.Present() {
		return nil
	}
	if f.Sourced.Present() {
		return model.SourcedFact(strings.TrimSpace(f.Sourced.Content), in.resolve(f.Sourced.Source))
	}

	c := f.Conflict
	deck, web := strings.TrimSpace(c.PitchDeckInfo), strings.TrimSpace(c.WebInfo)
	switch {
	case deck != "" && web != "" && strings.EqualFold(deck, web):
		return model.SourcedFact(deck, in.resolve(model.SourceBoth))
	case deck != "" && web != "" && in.web && in.deck:
		return &model.MarketFact{Conflict: &model.ConflictingInfo{
			PitchDeckInfo: deck,
			WebInfo:       web,
			Note:          strings.TrimSpace(c.Note),
		}}
	case deck != "" && web != "" && in.web:
		return model.SourcedFact(web, model.SourceWeb)
	case deck != "":
		return model.SourcedFact(deck, in.resolve(model.SourceDeck))
	default:
		return model.SourcedFact(web, in.resolve(model.SourceWeb))
	}
}
