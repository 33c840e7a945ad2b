package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"livpconv/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversion results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("history is disabled in the configuration")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Recent(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No conversions recorded yet")
				return nil
			}

			headers := []string{"When", "Archive", "Outcome", "Attempts", "Duration", "Error"}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				when := ""
				if !entry.CreatedAt.IsZero() {
					when = entry.CreatedAt.Local().Format(time.DateTime)
				}
				rows = append(rows, []string{
					when,
					entry.Archive,
					entry.Outcome,
					fmt.Sprintf("%d", entry.Attempts),
					entry.Duration.Truncate(time.Millisecond).String(),
					entry.Error,
				})
			}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))

			counts, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Totals: %d converted, %d skipped, %d failed\n",
				counts["converted"], counts["skipped"], counts["failed"])
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum number of entries to show")
	return cmd
}
