// Package viewer holds the flashcard viewer state machine.
//
// Transitions are pure: Reduce maps a State and an Action to the next State,
// plus an optional Fetch effect that the Controller executes. Nothing in a
// State is mutated in place; slices and maps are copied on write.
package viewer

import (
	"fmt"
	"slices"

	"github.com/griesmnr/flash-cards/internal/models"
)

// State is one viewer's complete state.
type State struct {
	Collections []string      `json:"collections"`
	Selected    string        `json:"selected"`
	Deck        []models.Card `json:"deck"`
	Index       int           `json:"index"`
	ShowBack    bool          `json:"show_back"`

	// HiddenFields lists back fields toggled off. Fields are shown by default.
	HiddenFields map[string]bool `json:"hidden_fields,omitempty"`

	// Pending is the collection whose fetch is in flight, if any. Seq numbers
	// selection requests; only the fetch carrying the latest Seq may commit.
	Pending string `json:"pending,omitempty"`
	Seq     uint64 `json:"seq"`

	// Rev counts actions applied by a Controller, and Epoch names that
	// controller instance. Reduce leaves both alone.
	Rev   uint64 `json:"rev"`
	Epoch string `json:"epoch"`
}

// Fetch asks the controller to load and shuffle a collection.
type Fetch struct {
	Collection string
	Seq        uint64
}

type Action interface {
	actionName() string
}

type (
	// LoadCollections populates the selector and requests the first collection.
	LoadCollections struct{ IDs []string }
	// Select requests a collection; the deck changes once its fetch commits.
	Select struct{ ID string }
	// Next advances to the following card, wrapping at the end.
	Next struct{}
	// Flip shows or hides the back of the current card.
	Flip struct{}
	// ToggleField flips visibility of one back field.
	ToggleField struct{ Field string }
	// DeckLoaded carries an already shuffled deck back from a fetch.
	DeckLoaded struct {
		ID    string
		Seq   uint64
		Cards []models.Card
	}
	// DeckFailed reports a fetch that could not produce a deck.
	DeckFailed struct {
		ID  string
		Seq uint64
		Err error
	}
)

func (LoadCollections) actionName() string { return "load_collections" }
func (Select) actionName() string          { return "select" }
func (Next) actionName() string            { return "next" }
func (Flip) actionName() string            { return "flip" }
func (ToggleField) actionName() string     { return "toggle_field" }
func (DeckLoaded) actionName() string      { return "deck_loaded" }
func (DeckFailed) actionName() string      { return "deck_failed" }

// Reduce applies a to s. On error the returned state is s unchanged.
func Reduce(s State, a Action) (State, *Fetch, error) {
	switch a := a.(type) {
	case LoadCollections:
		s.Collections = slices.Clone(a.IDs)
		if len(s.Collections) == 0 {
			return s, nil, nil
		}
		return requestFetch(s, s.Collections[0])

	case Select:
		if !slices.Contains(s.Collections, a.ID) {
			return s, nil, fmt.Errorf("%w: %s", models.ErrUnknownCollection, a.ID)
		}
		return requestFetch(s, a.ID)

	case Next:
		if len(s.Deck) == 0 {
			return s, nil, models.ErrEmptyDeck
		}
		s.Index = (s.Index + 1) % len(s.Deck)
		s.ShowBack = false
		return s, nil, nil

	case Flip:
		if len(s.Deck) == 0 {
			return s, nil, models.ErrEmptyDeck
		}
		s.ShowBack = !s.ShowBack
		return s, nil, nil

	case ToggleField:
		if a.Field == "" {
			return s, nil, models.ErrUnknownField
		}
		hidden := make(map[string]bool, len(s.HiddenFields)+1)
		for k, v := range s.HiddenFields {
			if v {
				hidden[k] = true
			}
		}
		if hidden[a.Field] {
			delete(hidden, a.Field)
		} else {
			hidden[a.Field] = true
		}
		s.HiddenFields = hidden
		return s, nil, nil

	case DeckLoaded:
		if a.Seq != s.Seq || s.Pending == "" {
			return s, nil, nil // superseded
		}
		s.Selected = a.ID
		s.Deck = slices.Clone(a.Cards)
		s.Index = 0
		s.ShowBack = false
		s.Pending = ""
		return s, nil, nil

	case DeckFailed:
		if a.Seq == s.Seq {
			s.Pending = ""
		}
		return s, nil, nil

	case nil:
		return s, nil, models.ErrUnknownAction
	}
	return s, nil, fmt.Errorf("%w: %T", models.ErrUnknownAction, a)
}

func requestFetch(s State, id string) (State, *Fetch, error) {
	s.Seq++
	s.Pending = id
	return s, &Fetch{Collection: id, Seq: s.Seq}, nil
}

// Current returns the card at Index, or false when the deck is empty.
func (s State) Current() (models.Card, bool) {
	if len(s.Deck) == 0 {
		return models.Card{}, false
	}
	return s.Deck[s.Index], true
}

// FieldVisible reports whether back field key is rendered when the back shows.
func (s State) FieldVisible(key string) bool {
	return !s.HiddenFields[key]
}

// Loading reports whether a selection is waiting on its fetch.
func (s State) Loading() bool {
	return s.Pending != ""
}
