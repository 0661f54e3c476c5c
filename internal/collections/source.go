// Package collections supplies card collections to the viewer: a YAML
// manifest of JSON files, or the sqlite card store.
package collections

import (
	"context"

	"github.com/griesmnr/flash-cards/internal/models"
)

// Source lists collection identifiers and fetches their cards.
// Fetch errors wrap models.ErrCollectionUnavailable, or
// models.ErrUnknownCollection for names List never returned.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Fetch(ctx context.Context, name string) ([]models.Card, error)
}
