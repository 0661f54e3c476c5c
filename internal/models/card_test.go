package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBack_UnmarshalKeepsExtras(t *testing.T) {
	var c Card
	err := json.Unmarshal([]byte(`{
		"front": "Dog",
		"back": {"name": "Canine", "soundsLike": "Dawg", "plural": "Dogs", "rank": 3}
	}`), &c)
	require.NoError(t, err)

	assert.Equal(t, "Dog", c.Front)
	assert.Equal(t, "Canine", c.Back.Name)
	assert.Equal(t, "Dawg", c.Back.SoundsLike)
	assert.Empty(t, c.Back.ExampleUsage)
	assert.Equal(t, map[string]string{"plural": "Dogs"}, c.Back.Extra)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	var again Card
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, c, again)
}

func TestBack_FieldsOrder(t *testing.T) {
	b := Back{
		Name:         "Canine",
		SoundsLike:   "Dawg",
		ExampleUsage: "The dog barked.",
		Extra:        map[string]string{"zeta": "z", "alpha": "a"},
	}
	var keys []string
	for _, f := range b.Fields() {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{FieldName, FieldSoundsLike, FieldExampleUsage, "alpha", "zeta"}, keys)
	assert.Equal(t, "Sounds Like", b.Fields()[1].Label)
}

func TestBack_FieldsSkipsEmpty(t *testing.T) {
	assert.Empty(t, Back{}.Fields())

	fields := Back{Name: "Canine", ExampleUsage: "The dog barked."}.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, FieldName, fields[0].Key)
	assert.Equal(t, FieldExampleUsage, fields[1].Key)
}
