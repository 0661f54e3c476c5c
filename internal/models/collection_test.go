package models_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/griesmnr/flash-cards/internal/database"
	"github.com/griesmnr/flash-cards/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceCollection_ListAndReplace(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "cards.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	animals := []models.Card{
		{Front: "Dog", Back: models.Back{Name: "Canine", SoundsLike: "Dawg"}},
		{Front: "Cat", Back: models.Back{Name: "Feline"}},
	}
	require.NoError(t, models.ReplaceCollection(ctx, db, "colors", 1, []models.Card{{Front: "Red"}}))
	require.NoError(t, models.ReplaceCollection(ctx, db, "animals", 0, animals))

	summaries, err := models.ListCollections(ctx, db)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "animals", summaries[0].Name)
	assert.Equal(t, int64(2), summaries[0].CardCount)
	assert.Equal(t, "colors", summaries[1].Name)

	cards, err := models.ListCards(ctx, db, "animals")
	require.NoError(t, err)
	assert.Equal(t, animals, cards)

	// Replacing drops the old cards.
	require.NoError(t, models.ReplaceCollection(ctx, db, "animals", 0, animals[:1]))
	cards, err = models.ListCards(ctx, db, "animals")
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestListCards_NotFound(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "cards.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = models.ListCards(ctx, db, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListCards_HonoursContext(t *testing.T) {
	db, err := database.OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "cards.db"), nil)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, models.ReplaceCollection(context.Background(), db, "animals", 0, []models.Card{{Front: "Dog"}}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = models.ListCards(ctx, db, "animals")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = models.ListCollections(ctx, db)
	assert.ErrorIs(t, err, context.Canceled)

	err = models.ReplaceCollection(ctx, db, "animals", 0, nil)
	assert.ErrorIs(t, err, context.Canceled)

	// The cancelled replace left the stored cards alone.
	cards, err := models.ListCards(context.Background(), db, "animals")
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}
