package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"discid/internal/discid"
	"discid/internal/drive"
	"discid/internal/logging"
	"discid/internal/watcher"
)

func newWatchCommand(cmdCtx *commandContext) *cobra.Command {
	var deviceFlag string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch for disc insertions and identify each disc as it arrives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}

			device := cmdCtx.deviceFor(deviceFlag)

			handler := func(ctx context.Context, devicePath string) error {
				status, err := drive.WaitForReady(ctx, devicePath)
				if err != nil {
					return fmt.Errorf("drive %s not ready (%s): %w", devicePath, status, err)
				}

				session, err := cmdCtx.newSession()
				if err != nil {
					return err
				}
				defer session.Close()

				readCtx := ctx
				if cfg.Drive.ReadTimeout > 0 {
					var cancel context.CancelFunc
					readCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Drive.ReadTimeout)*time.Second)
					defer cancel()
				}
				if err := session.Read(readCtx, devicePath, discid.AllFeatures); err != nil {
					return err
				}

				report, err := buildReport(session, devicePath)
				if err != nil {
					return err
				}

				if cfg.History.Enabled {
					if err := recordRead(ctx, cfg, report); err != nil {
						logger.Warn("failed to record read in history", logging.Error(err))
					}
				}

				if cmdCtx.JSONMode() {
					return writeJSON(cmd, report)
				}
				printReport(cmd, report)
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			}

			monitor := watcher.NewMonitor(device, logger, handler)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := monitor.Start(ctx); err != nil {
				return fmt.Errorf("start disc watcher: %w", err)
			}
			defer monitor.Stop()

			if !cmdCtx.JSONMode() {
				fmt.Fprintln(cmd.OutOrStdout(), "Watching for disc insertions. Press Ctrl+C to stop.")
			}

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&deviceFlag, "device", "d", "", "Only react to insertions in this device")
	return cmd
}
