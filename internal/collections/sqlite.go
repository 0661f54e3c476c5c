package collections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/griesmnr/flash-cards/internal/models"

	"go.uber.org/zap"
)

// SQLSource serves collections previously imported into the sqlite card store.
type SQLSource struct {
	db *sql.DB
}

func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

func (s *SQLSource) List(ctx context.Context) ([]string, error) {
	summaries, err := models.ListCollections(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	names := make([]string, len(summaries))
	for i, c := range summaries {
		names[i] = c.Name
	}
	return names, nil
}

func (s *SQLSource) Fetch(ctx context.Context, name string) ([]models.Card, error) {
	cards, err := models.ListCards(ctx, s.db, name)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownCollection, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrCollectionUnavailable, name, err)
	}
	return cards, nil
}

// Import copies every collection of src into the card store, preserving
// src's listing order. It returns the number of collections written.
func Import(ctx context.Context, db *sql.DB, src Source, log *zap.Logger) (int, error) {
	names, err := src.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list source collections: %w", err)
	}
	for i, name := range names {
		cards, err := src.Fetch(ctx, name)
		if err != nil {
			return i, err
		}
		if err := models.ReplaceCollection(ctx, db, name, int64(i), cards); err != nil {
			return i, fmt.Errorf("store %s: %w", name, err)
		}
		log.Info("imported collection", zap.String("collection", name), zap.Int("cards", len(cards)))
	}
	return len(names), nil
}
