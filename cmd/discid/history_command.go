package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"discid/internal/history"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the local log of disc reads",
	}

	cmd.AddCommand(newHistoryListCommand(cmdCtx))
	cmd.AddCommand(newHistoryRemoveCommand(cmdCtx))
	cmd.AddCommand(newHistoryClearCommand(cmdCtx))

	return cmd
}

func openHistory(cmdCtx *commandContext) (*history.Store, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("history is disabled; enable it in the configuration file")
	}
	return history.Open(cfg)
}

func newHistoryListCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded disc reads, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			if cmdCtx.JSONMode() {
				if entries == nil {
					entries = []history.Entry{}
				}
				return writeJSON(cmd, entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No disc reads recorded.")
				return nil
			}

			rows := make([]table.Row, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, table.Row{
					entry.ID,
					entry.DiscID,
					entry.FreeDBID,
					fmt.Sprintf("%d-%d", entry.FirstTrack, entry.LastTrack),
					entry.SeenCount,
					entry.LastSeen.Local().Format(time.DateTime),
				})
			}
			renderTable(cmd.OutOrStdout(), table.Row{"ID", "Disc ID", "FreeDB", "Tracks", "Seen", "Last Seen"}, rows)
			return nil
		},
	}
}

func newHistoryRemoveCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove one history entry by its row ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid history ID %q", args[0])
			}

			store, err := openHistory(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed history entry %d.\n", id)
			return nil
		},
	}
}

func newHistoryClearCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history entries.\n", removed)
			return nil
		},
	}
}
