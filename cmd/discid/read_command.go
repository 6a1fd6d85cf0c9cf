package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"discid/internal/config"
	"discid/internal/discid"
	"discid/internal/history"
	"discid/internal/logging"
)

func newReadCommand(cmdCtx *commandContext) *cobra.Command {
	var deviceFlag string
	var noMCN bool
	var noISRC bool
	var timeoutSeconds int

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read the disc in the drive and print its identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			session, err := cmdCtx.newSession()
			if err != nil {
				return err
			}
			defer session.Close()

			features := discid.AllFeatures
			if noMCN {
				features = features.Without(discid.FeatureMCN)
			}
			if noISRC {
				features = features.Without(discid.FeatureISRC)
			}

			ctx := cmd.Context()
			timeout := cfg.Drive.ReadTimeout
			if timeoutSeconds > 0 {
				timeout = timeoutSeconds
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
				defer cancel()
			}

			device := cmdCtx.deviceFor(deviceFlag)
			if err := session.Read(ctx, device, features); err != nil {
				return err
			}

			report, err := buildReport(session, device)
			if err != nil {
				return err
			}

			if cfg.History.Enabled {
				if err := recordRead(ctx, cfg, report); err != nil {
					if logger, logErr := cmdCtx.ensureLogger(); logErr == nil {
						logger.Warn("failed to record read in history", logging.Error(err))
					}
				}
			}

			if cmdCtx.JSONMode() {
				return writeJSON(cmd, report)
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&deviceFlag, "device", "d", "", "Device to read (defaults to configuration, then the platform default)")
	cmd.Flags().BoolVar(&noMCN, "no-mcn", false, "Skip reading the media catalog number")
	cmd.Flags().BoolVar(&noISRC, "no-isrc", false, "Skip reading per-track ISRCs")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "Read timeout in seconds (overrides configuration)")

	return cmd
}

func recordRead(ctx context.Context, cfg *config.Config, report *discReport) error {
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(ctx, history.Entry{
		DiscID:        report.DiscID,
		FreeDBID:      report.FreeDBID,
		Device:        report.Device,
		FirstTrack:    report.FirstTrack,
		LastTrack:     report.LastTrack,
		Sectors:       report.Sectors,
		TOC:           report.TOC,
		MCN:           report.MCN,
		SubmissionURL: report.SubmissionURL,
	})
	return err
}
