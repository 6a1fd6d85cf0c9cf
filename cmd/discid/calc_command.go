package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"discid/internal/discid"
)

// offlineReader backs sessions that only ever receive caller-supplied
// geometry. It has no capabilities and never touches a device.
type offlineReader struct{}

func (offlineReader) HasFeature(discid.Feature) bool { return false }

func (offlineReader) ReadTOC(context.Context, string, discid.FeatureSet) (*discid.TOC, error) {
	return nil, fmt.Errorf("offline session cannot read a device")
}

func (offlineReader) DefaultDevice() string { return "" }

func (offlineReader) Version() string { return "offline" }

func newCalcCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc <first-track> <leadout> <offset>...",
		Short: "Compute disc identifiers from raw TOC numbers without a drive",
		Long: `Compute disc identifiers from a table of contents given on the command
line: the first track number, the lead-out sector, and one start offset per
track in track order. Offsets include the standard 150-sector lead-in gap.`,
		Example: `  discid calc 1 95000 150 25000`,
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseInts(args)
			if err != nil {
				return err
			}
			firstTrack := values[0]
			sectors := values[1]
			offsets := values[2:]

			session, err := discid.NewSession(offlineReader{})
			if err != nil {
				return err
			}
			defer session.Close()

			if err := session.Put(firstTrack, sectors, offsets); err != nil {
				return err
			}

			report, err := buildReport(session, "")
			if err != nil {
				return err
			}
			if cmdCtx.JSONMode() {
				return writeJSON(cmd, report)
			}
			printReport(cmd, report)
			return nil
		},
	}
	return cmd
}

func parseInts(args []string) ([]int, error) {
	values := make([]int, 0, len(args))
	for _, arg := range args {
		value, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", arg)
		}
		values = append(values, value)
	}
	return values, nil
}
