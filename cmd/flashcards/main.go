package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/griesmnr/flash-cards/internal/config"
	"github.com/griesmnr/flash-cards/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags. Each overrides the environment variable of the same role.
	envFile      string
	manifestPath string
	dataDir      string
	cardStore    string
	databasePath string
	logLevel     string

	cfg    config.Config
	logger *zap.Logger
)

// flagEnv maps persistent flags to the env keys config.LoadFromEnv reads.
var flagEnv = map[string]string{
	"manifest":  "MANIFEST_PATH",
	"data-dir":  "DATA_DIR",
	"store":     "CARD_STORE",
	"db":        "DATABASE_PATH",
	"log-level": "LOG_LEVEL",
}

var rootCmd = &cobra.Command{
	Use:   "flashcards",
	Short: "Shuffle and step through flashcard collections",
	Long: `flashcards loads named card collections (JSON files listed in a YAML
manifest or found in a data directory), shuffles the selected one and lets you
flip and step through its cards in a browser or in the terminal.

Configuration comes from the environment (and .env); flags take precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(envFile); err != nil {
			return err
		}
		if err := applyFlagEnv(cmd); err != nil {
			return err
		}
		var err error
		cfg, err = config.LoadFromEnv()
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.AppEnv, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")
	pf.StringVar(&manifestPath, "manifest", "", "YAML manifest of collections (MANIFEST_PATH)")
	pf.StringVar(&dataDir, "data-dir", "", "directory of *.json collections (DATA_DIR)")
	pf.StringVar(&cardStore, "store", "", "card store: files|sqlite (CARD_STORE)")
	pf.StringVar(&databasePath, "db", "", "sqlite card store path (DATABASE_PATH)")
	pf.StringVar(&logLevel, "log-level", "", "debug|info|warn|error (LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd, studyCmd, collectionsCmd, importCmd)
}

// loadEnvFile loads path best-effort: a missing default file is fine, and
// variables already set in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyFlagEnv(cmd *cobra.Command) error {
	for name, key := range flagEnv {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := os.Setenv(key, f.Value.String()); err != nil {
			return fmt.Errorf("apply --%s: %w", name, err)
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
