package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/griesmnr/flash-cards/internal/collections"
	"github.com/griesmnr/flash-cards/internal/config"
	"github.com/griesmnr/flash-cards/internal/database"

	"go.uber.org/zap"
)

// openManifest resolves the collection manifest once: an explicit manifest
// file if configured, otherwise the *.json files of the data directory.
func openManifest(c config.Config) (collections.Manifest, error) {
	if c.ManifestPath != "" {
		return collections.LoadManifest(c.ManifestPath)
	}
	if c.DataDir == "" {
		return collections.Manifest{}, fmt.Errorf("no MANIFEST_PATH or DATA_DIR configured")
	}
	return collections.DiscoverManifest(c.DataDir)
}

// openSource returns the configured card source and a function releasing it.
func openSource(ctx context.Context, c config.Config, log *zap.Logger) (collections.Source, func(), error) {
	switch c.CardStore {
	case config.StoreSQLite:
		db, err := database.OpenAndMigrate(ctx, c.DatabasePath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("db open/migrate: %w", err)
		}
		return collections.NewSQLSource(db), closeDB(db, log), nil
	default:
		m, err := openManifest(c)
		if err != nil {
			return nil, nil, err
		}
		log.Info("collections resolved", zap.Int("count", len(m.Collections)))
		return collections.NewFileSource(m), func() {}, nil
	}
}

func closeDB(db *sql.DB, log *zap.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Warn("db close error", zap.Error(err))
		}
	}
}
