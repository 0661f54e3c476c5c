package main

import (
	"context"
	"fmt"

	"github.com/griesmnr/flash-cards/internal/logging"
	"github.com/griesmnr/flash-cards/internal/tui"
	"github.com/griesmnr/flash-cards/internal/viewer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	studyCollection string
	studyLogFile    string
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Study a collection in the terminal",
	Long: `Opens a full-screen terminal viewer over the configured collections.

Keys:
  space/f   flip the card
  n/enter   next card
  [ ]       previous/next collection
  1-9       toggle back fields
  q         quit`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logging to stderr would tear the full-screen UI.
		if studyLogFile == "" {
			logger = zap.NewNop()
			return nil
		}
		l, err := logging.New(cfg.AppEnv, cfg.LogLevel, studyLogFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	RunE: runStudy,
}

func init() {
	studyCmd.Flags().StringVarP(&studyCollection, "collection", "c", "", "collection to open first")
	studyCmd.Flags().StringVar(&studyLogFile, "log-file", "", "write logs to this file")
}

func runStudy(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	src, release, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer release()

	ctrl := viewer.NewController(src,
		viewer.WithLogger(logger),
		viewer.WithFetchTimeout(cfg.FetchTimeout),
	)
	go ctrl.Run(ctx)
	defer func() {
		cancel()
		<-ctrl.Done()
	}()

	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	if studyCollection != "" {
		if _, err := ctrl.Do(ctx, viewer.Select{ID: studyCollection}); err != nil {
			return fmt.Errorf("collection %q: %w", studyCollection, err)
		}
	}
	return tui.Run(ctx, ctrl)
}
