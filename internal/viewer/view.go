package viewer

import (
	"sort"

	"github.com/griesmnr/flash-cards/internal/models"
)

// View is the render-ready projection of a State shared by the HTML page,
// the JSON API and the terminal UI.
type View struct {
	Collections []string      `json:"collections"`
	Selected    string        `json:"selected"`
	Pending     string        `json:"pending,omitempty"`
	Loading     bool          `json:"loading"`
	Toggles     []FieldToggle `json:"toggles"`
	Card        *CardView     `json:"card,omitempty"`
	Rev         uint64        `json:"rev"`
	Epoch       string        `json:"epoch"`
}

type FieldToggle struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
}

type CardView struct {
	Front     string      `json:"front"`
	ShowBack  bool        `json:"show_back"`
	FlipLabel string      `json:"flip_label"`
	Fields    []FieldView `json:"fields,omitempty"`
	Position  int         `json:"position"`
	Total     int         `json:"total"`
}

type FieldView struct {
	Key     string `json:"key"`
	Label   string `json:"label,omitempty"`
	Value   string `json:"value"`
	Heading bool   `json:"heading,omitempty"`
}

func NewView(s State) View {
	v := View{
		Collections: s.Collections,
		Selected:    s.Selected,
		Pending:     s.Pending,
		Loading:     s.Loading(),
		Toggles:     toggles(s),
		Rev:         s.Rev,
		Epoch:       s.Epoch,
	}
	card, ok := s.Current()
	if !ok {
		return v
	}

	cv := &CardView{
		Front:     card.Front,
		ShowBack:  s.ShowBack,
		FlipLabel: "Show Back",
		Position:  s.Index + 1,
		Total:     len(s.Deck),
	}
	if s.ShowBack {
		cv.FlipLabel = "Show Front"
		for _, f := range card.Back.Fields() {
			if !s.FieldVisible(f.Key) {
				continue
			}
			cv.Fields = append(cv.Fields, FieldView{
				Key:     f.Key,
				Label:   f.Label,
				Value:   f.Value,
				Heading: f.Key == models.FieldName,
			})
		}
	}
	v.Card = cv
	return v
}

// toggles lists every back field present anywhere in the deck, in first-seen
// order, plus any hidden field so it can be switched back on.
func toggles(s State) []FieldToggle {
	var out []FieldToggle
	seen := map[string]bool{}
	add := func(key, label string) {
		if seen[key] {
			return
		}
		seen[key] = true
		if label == "" {
			label = "Name"
		}
		out = append(out, FieldToggle{Key: key, Label: label, Visible: s.FieldVisible(key)})
	}
	for _, c := range s.Deck {
		for _, f := range c.Back.Fields() {
			add(f.Key, f.Label)
		}
	}
	hidden := make([]string, 0, len(s.HiddenFields))
	for key, h := range s.HiddenFields {
		if h {
			hidden = append(hidden, key)
		}
	}
	sort.Strings(hidden)
	for _, key := range hidden {
		add(key, key)
	}
	return out
}
