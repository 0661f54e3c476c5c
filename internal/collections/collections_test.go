package collections

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/griesmnr/flash-cards/internal/database"
	"github.com/griesmnr/flash-cards/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const animalsJSON = `[
	{"front": "Dog", "back": {"name": "Canine", "soundsLike": "Dawg", "exampleUsage": "The dog barked."}},
	{"front": "Cat", "back": {"name": "Feline", "soundsLike": "Kat"}}
]`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDiscoverManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colors.json", `[]`)
	writeFile(t, dir, "animals.json", animalsJSON)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	m, err := DiscoverManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"animals", "colors"}, m.Names())

	e, ok := m.Lookup("animals")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "animals.json"), e.Path)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "data"), 0o755))
	path := writeFile(t, dir, "decks.yaml", `
collections:
  - name: Spanish Colors
    path: data/colors.json
  - path: data/animals.json
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spanish Colors", "animals"}, m.Names())
	assert.Equal(t, filepath.Join(dir, "data", "colors.json"), m.Collections[0].Path)
}

func TestLoadManifest_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifest(writeFile(t, dir, "nopath.yaml", "collections:\n  - name: x\n"))
	assert.ErrorContains(t, err, "has no path")

	_, err = LoadManifest(writeFile(t, dir, "dupe.yaml", "collections:\n  - path: a.json\n  - path: other/a.json\n"))
	assert.ErrorIs(t, err, models.ErrDuplicateCollection)

	_, err = LoadManifest(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "animals.json", animalsJSON)
	writeFile(t, dir, "broken.json", `{"front": `)
	m, err := DiscoverManifest(dir)
	require.NoError(t, err)
	src := NewFileSource(m)
	ctx := context.Background()

	names, err := src.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"animals", "broken"}, names)

	cards, err := src.Fetch(ctx, "animals")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Dog", cards[0].Front)
	assert.Equal(t, "Dawg", cards[0].Back.SoundsLike)

	_, err = src.Fetch(ctx, "broken")
	assert.ErrorIs(t, err, models.ErrCollectionUnavailable)

	_, err = src.Fetch(ctx, "plants")
	assert.ErrorIs(t, err, models.ErrUnknownCollection)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = src.Fetch(cancelled, "animals")
	assert.ErrorIs(t, err, models.ErrCollectionUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource(Manifest{Collections: []Entry{{Name: "gone", Path: filepath.Join(t.TempDir(), "gone.json")}}})
	_, err := src.Fetch(context.Background(), "gone")
	assert.ErrorIs(t, err, models.ErrCollectionUnavailable)
}

func TestFileSource_ResultsDoNotAlias(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "animals.json", animalsJSON)
	m, err := DiscoverManifest(dir)
	require.NoError(t, err)
	src := NewFileSource(m)

	a, err := src.Fetch(context.Background(), "animals")
	require.NoError(t, err)
	a[0].Front = "changed"
	b, err := src.Fetch(context.Background(), "animals")
	require.NoError(t, err)
	assert.Equal(t, "Dog", b[0].Front)
}

func TestImportAndSQLSource(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "animals.json", animalsJSON)
	writeFile(t, dir, "colors.json", `[{"front": "Rojo", "back": {"name": "Red"}}]`)
	m, err := DiscoverManifest(dir)
	require.NoError(t, err)

	db, err := database.OpenAndMigrate(ctx, filepath.Join(dir, "cards.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	n, err := Import(ctx, db, NewFileSource(m), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	src := NewSQLSource(db)
	names, err := src.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"animals", "colors"}, names)

	fromFiles, err := NewFileSource(m).Fetch(ctx, "animals")
	require.NoError(t, err)
	fromDB, err := src.Fetch(ctx, "animals")
	require.NoError(t, err)
	assert.Equal(t, fromFiles, fromDB)

	_, err = src.Fetch(ctx, "plants")
	assert.ErrorIs(t, err, models.ErrUnknownCollection)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = src.Fetch(cancelled, "animals")
	assert.ErrorIs(t, err, models.ErrCollectionUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
