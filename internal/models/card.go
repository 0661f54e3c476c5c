package models

import (
	"encoding/json"
	"sort"
)

// Back field keys as they appear in collection JSON.
const (
	FieldName         = "name"
	FieldSoundsLike   = "soundsLike"
	FieldExampleUsage = "exampleUsage"
)

// Card is one flashcard record: a front prompt and a structured back payload.
type Card struct {
	Front string `json:"front"`
	Back  Back   `json:"back"`
}

// Back is the answer side of a card. Name, SoundsLike and ExampleUsage are the
// fields the viewer knows how to label; any other string-valued keys are kept
// in Extra so they survive a round trip through the card store.
type Back struct {
	Name         string
	SoundsLike   string
	ExampleUsage string
	Extra        map[string]string
}

// BackField is one renderable back field in display order.
type BackField struct {
	Key   string
	Label string
	Value string
}

func (b Back) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(b.Extra)+3)
	for k, v := range b.Extra {
		out[k] = v
	}
	if b.Name != "" {
		out[FieldName] = b.Name
	}
	if b.SoundsLike != "" {
		out[FieldSoundsLike] = b.SoundsLike
	}
	if b.ExampleUsage != "" {
		out[FieldExampleUsage] = b.ExampleUsage
	}
	return json.Marshal(out)
}

func (b *Back) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Back{}
	for k, v := range raw {
		var s string
		// Non-string values (numbers, nested objects) are not rendered.
		if err := json.Unmarshal(v, &s); err != nil {
			continue
		}
		switch k {
		case FieldName:
			b.Name = s
		case FieldSoundsLike:
			b.SoundsLike = s
		case FieldExampleUsage:
			b.ExampleUsage = s
		default:
			if b.Extra == nil {
				b.Extra = map[string]string{}
			}
			b.Extra[k] = s
		}
	}
	return nil
}

// Fields returns the populated back fields: name, soundsLike, exampleUsage,
// then extras sorted by key.
func (b Back) Fields() []BackField {
	fields := make([]BackField, 0, 3+len(b.Extra))
	if b.Name != "" {
		fields = append(fields, BackField{Key: FieldName, Value: b.Name})
	}
	if b.SoundsLike != "" {
		fields = append(fields, BackField{Key: FieldSoundsLike, Label: "Sounds Like", Value: b.SoundsLike})
	}
	if b.ExampleUsage != "" {
		fields = append(fields, BackField{Key: FieldExampleUsage, Label: "Example Usage", Value: b.ExampleUsage})
	}
	keys := make([]string, 0, len(b.Extra))
	for k := range b.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, BackField{Key: k, Label: k, Value: b.Extra[k]})
	}
	return fields
}
