package viewer

import (
	"testing"

	"github.com/griesmnr/flash-cards/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewView_FrontOnly(t *testing.T) {
	v := NewView(loaded(t, dog, cat))

	require.NotNil(t, v.Card)
	assert.Equal(t, "Dog", v.Card.Front)
	assert.False(t, v.Card.ShowBack)
	assert.Equal(t, "Show Back", v.Card.FlipLabel)
	assert.Empty(t, v.Card.Fields)
	assert.Equal(t, 1, v.Card.Position)
	assert.Equal(t, 2, v.Card.Total)
	assert.Equal(t, "animals", v.Selected)
}

func TestNewView_BackRespectsToggles(t *testing.T) {
	ex := models.Card{Front: "Dog", Back: models.Back{Name: "Canine", SoundsLike: "Dawg", ExampleUsage: "Good dog."}}
	s := loaded(t, ex)
	s, _ = mustReduce(t, s, Flip{})
	s, _ = mustReduce(t, s, ToggleField{Field: models.FieldSoundsLike})

	v := NewView(s)
	require.NotNil(t, v.Card)
	assert.Equal(t, "Show Front", v.Card.FlipLabel)
	require.Len(t, v.Card.Fields, 2)
	assert.Equal(t, FieldView{Key: models.FieldName, Value: "Canine", Heading: true}, v.Card.Fields[0])
	assert.Equal(t, FieldView{Key: models.FieldExampleUsage, Label: "Example Usage", Value: "Good dog."}, v.Card.Fields[1])

	assert.Equal(t, []FieldToggle{
		{Key: models.FieldName, Label: "Name", Visible: true},
		{Key: models.FieldSoundsLike, Label: "Sounds Like", Visible: false},
		{Key: models.FieldExampleUsage, Label: "Example Usage", Visible: true},
	}, v.Toggles)
}

func TestNewView_EmptyDeck(t *testing.T) {
	s, _ := mustReduce(t, State{}, LoadCollections{IDs: []string{"animals"}})
	v := NewView(s)
	assert.Nil(t, v.Card)
	assert.True(t, v.Loading)
	assert.Equal(t, "animals", v.Pending)
}
