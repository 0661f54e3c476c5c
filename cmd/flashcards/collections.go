package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var collectionsCounts bool

var collectionsCmd = &cobra.Command{
	Use:     "collections",
	Aliases: []string{"ls"},
	Short:   "List the configured collections",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		src, release, err := openSource(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer release()

		names, err := src.List(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !collectionsCounts {
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COLLECTION\tCARDS")
		for _, name := range names {
			cards, err := src.Fetch(ctx, name)
			if err != nil {
				fmt.Fprintf(w, "%s\tunavailable\n", name)
				continue
			}
			fmt.Fprintf(w, "%s\t%d\n", name, len(cards))
		}
		return w.Flush()
	},
}

func init() {
	collectionsCmd.Flags().BoolVar(&collectionsCounts, "count", false, "load each collection and show its card count")
}
