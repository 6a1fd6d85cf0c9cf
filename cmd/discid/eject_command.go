package main

import (
	"github.com/spf13/cobra"

	"discid/internal/drive"
)

func newEjectCommand(cmdCtx *commandContext) *cobra.Command {
	var deviceFlag string

	cmd := &cobra.Command{
		Use:   "eject",
		Short: "Eject the disc from the drive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			device := cmdCtx.deviceFor(deviceFlag)
			return drive.NewEjector().Eject(cmd.Context(), device)
		},
	}

	cmd.Flags().StringVarP(&deviceFlag, "device", "d", "", "Device to eject (defaults to configuration, then the platform default)")
	return cmd
}
