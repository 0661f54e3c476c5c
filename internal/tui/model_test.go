package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/griesmnr/flash-cards/internal/models"
	"github.com/griesmnr/flash-cards/internal/viewer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticSource map[string][]models.Card

func (s staticSource) List(context.Context) ([]string, error) {
	return []string{"animals", "colors", "empty"}, nil
}

func (s staticSource) Fetch(_ context.Context, name string) ([]models.Card, error) {
	cards, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrCollectionUnavailable, name)
	}
	return cards, nil
}

func testSource() staticSource {
	return staticSource{
		"animals": {
			{Front: "Dog", Back: models.Back{Name: "Canine", SoundsLike: "Dawg", ExampleUsage: "The dog barked."}},
			{Front: "Cat", Back: models.Back{Name: "Feline", SoundsLike: "Kat", ExampleUsage: "The cat meowed."}},
		},
		"colors": {
			{Front: "Red", Back: models.Back{Name: "Rojo", SoundsLike: "Ro-ho"}},
		},
	}
}

func identity(c []models.Card) []models.Card { return c }

func newTestModel(t *testing.T) Model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := viewer.NewController(testSource(), viewer.WithShuffle(identity))
	go ctrl.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-ctrl.Done()
	})
	require.NoError(t, ctrl.Start(ctx))
	wctx, wcancel := context.WithTimeout(ctx, 2*time.Second)
	defer wcancel()
	_, err := ctrl.Settled(wctx)
	require.NoError(t, err)
	return New(ctx, ctrl)
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// settle waits for the pending selection and feeds the result to m.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := m.ctrl.Settled(ctx)
	require.NoError(t, err)
	next, _ := m.Update(stateMsg(st))
	return next.(Model)
}

func TestModel_StartsOnFirstCollection(t *testing.T) {
	m := newTestModel(t)
	require.NotNil(t, m.view.Card)
	assert.Equal(t, "animals", m.view.Selected)
	assert.Equal(t, "Dog", m.view.Card.Front)

	out := m.View()
	assert.Contains(t, out, "Dog")
	assert.Contains(t, out, "1 / 2")
	assert.Contains(t, out, "Show Back")
}

func TestModel_FlipAndNext(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "space")
	assert.True(t, m.view.Card.ShowBack)
	out := m.View()
	assert.Contains(t, out, "Canine")
	assert.Contains(t, out, "Sounds Like:")
	assert.Contains(t, out, "Show Front")

	m = press(m, "f")
	assert.False(t, m.view.Card.ShowBack)

	m = press(m, "space", "n")
	assert.Equal(t, "Cat", m.view.Card.Front)
	assert.False(t, m.view.Card.ShowBack)

	m = press(m, "enter")
	assert.Equal(t, "Dog", m.view.Card.Front)
}

func TestModel_ToggleField(t *testing.T) {
	m := newTestModel(t)
	require.GreaterOrEqual(t, len(m.view.Toggles), 2)
	assert.Equal(t, models.FieldSoundsLike, m.view.Toggles[1].Key)

	m = press(m, "space", "2")
	assert.False(t, m.view.Toggles[1].Visible)
	assert.NotContains(t, m.View(), "Dawg")

	m = press(m, "2")
	assert.Contains(t, m.View(), "Dawg")

	// Out of range digits are ignored.
	before := m.view.Rev
	m = press(m, "9")
	assert.Equal(t, before, m.view.Rev)
}

func TestModel_CycleCollections(t *testing.T) {
	m := newTestModel(t)

	m = settle(t, press(m, "]"))
	assert.Equal(t, "colors", m.view.Selected)
	assert.Equal(t, "Red", m.view.Card.Front)

	m = settle(t, press(m, "["))
	assert.Equal(t, "animals", m.view.Selected)

	m = settle(t, press(m, "["))
	// "empty" has no data, so the animals deck stays.
	assert.Equal(t, "animals", m.view.Selected)
	assert.Contains(t, m.status, `could not load "empty"`)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_WaitForChange(t *testing.T) {
	m := newTestModel(t)
	cmd := m.waitForChange()

	got := make(chan tea.Msg, 1)
	go func() { got <- cmd() }()
	_, err := m.ctrl.Do(context.Background(), viewer.Flip{})
	require.NoError(t, err)

	select {
	case msg := <-got:
		st, ok := msg.(stateMsg)
		require.True(t, ok)
		assert.True(t, viewer.State(st).ShowBack)
	case <-time.After(2 * time.Second):
		t.Fatal("no state change delivered")
	}
}
