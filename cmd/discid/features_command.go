package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"discid/internal/discid"
	"discid/internal/drive"
)

func newFeaturesCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Show which disc-reading capabilities this build supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}
			reader := drive.NewReader(logger)
			registry := discid.NewRegistry(reader)

			if cmdCtx.JSONMode() {
				payload := struct {
					Version  string          `json:"version"`
					Features map[string]bool `json:"features"`
				}{
					Version:  reader.Version(),
					Features: make(map[string]bool),
				}
				for _, f := range discid.AllFeatures.Features() {
					payload.Features[f.Label()] = registry.Supports(f)
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Version: %s\n\n", reader.Version())

			var rows []table.Row
			for _, f := range discid.AllFeatures.Features() {
				supported := "no"
				if registry.Supports(f) {
					supported = "yes"
				}
				rows = append(rows, table.Row{f.Label(), supported})
			}
			renderTable(out, table.Row{"Feature", "Supported"}, rows)
			return nil
		},
	}
	return cmd
}
