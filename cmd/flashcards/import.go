package main

import (
	"fmt"

	"github.com/griesmnr/flash-cards/internal/collections"
	"github.com/griesmnr/flash-cards/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy manifest collections into the sqlite card store",
	Long: `Reads every collection of the manifest (or data directory) and writes it
to the sqlite database at DATABASE_PATH, replacing collections of the same
name. Afterwards CARD_STORE=sqlite serves the cards from that one file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if cfg.DatabasePath == "" {
			return fmt.Errorf("missing/invalid env: DATABASE_PATH")
		}
		m, err := openManifest(cfg)
		if err != nil {
			return err
		}
		db, err := database.OpenAndMigrate(ctx, cfg.DatabasePath, logger)
		if err != nil {
			return fmt.Errorf("db open/migrate: %w", err)
		}
		defer closeDB(db, logger)()

		n, err := collections.Import(ctx, db, collections.NewFileSource(m), logger)
		if err != nil {
			return fmt.Errorf("import after %d collections: %w", n, err)
		}
		logger.Info("import complete", zap.Int("collections", n), zap.String("db", cfg.DatabasePath))
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d collections into %s\n", n, cfg.DatabasePath)
		return nil
	},
}
