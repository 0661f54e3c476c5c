package collections

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/griesmnr/flash-cards/internal/models"

	"golang.org/x/sync/singleflight"
)

// FileSource serves collections from the JSON files named in a manifest.
// Concurrent fetches of the same collection share one read.
type FileSource struct {
	manifest Manifest
	group    singleflight.Group
}

func NewFileSource(m Manifest) *FileSource {
	return &FileSource{manifest: m}
}

func (s *FileSource) List(context.Context) ([]string, error) {
	return s.manifest.Names(), nil
}

func (s *FileSource) Fetch(ctx context.Context, name string) ([]models.Card, error) {
	entry, ok := s.manifest.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownCollection, name)
	}

	ch := s.group.DoChan(name, func() (any, error) {
		return readCards(entry.Path)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", models.ErrCollectionUnavailable, name, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %s: %w", models.ErrCollectionUnavailable, name, res.Err)
		}
		// Callers own their slice; shared results must not alias.
		cards := res.Val.([]models.Card)
		out := make([]models.Card, len(cards))
		copy(out, cards)
		return out, nil
	}
}

func readCards(path string) ([]models.Card, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cards []models.Card
	if err := json.Unmarshal(body, &cards); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if cards == nil {
		cards = []models.Card{}
	}
	return cards, nil
}
