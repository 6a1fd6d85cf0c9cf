package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"discid/internal/discid"
)

// numPrinter groups digits in sector counts for table output.
var numPrinter = message.NewPrinter(language.English)

type trackReport struct {
	Number  int    `json:"number"`
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
	ISRC    string `json:"isrc,omitempty"`
	Runtime string `json:"runtime"`
}

type discReport struct {
	Device        string        `json:"device,omitempty"`
	DiscID        string        `json:"disc_id"`
	FreeDBID      string        `json:"freedb_id"`
	FirstTrack    int           `json:"first_track"`
	LastTrack     int           `json:"last_track"`
	Sectors       int           `json:"sectors"`
	Runtime       string        `json:"runtime"`
	TOC           string        `json:"toc"`
	MCN           string        `json:"mcn,omitempty"`
	SubmissionURL string        `json:"submission_url"`
	WebserviceURL string        `json:"webservice_url"`
	Tracks        []trackReport `json:"tracks"`
}

// buildReport collects every identifier and the track layout from a session
// holding a completed read. Catalog data the build cannot deliver is simply
// left out of the report.
func buildReport(session *discid.Session, device string) (*discReport, error) {
	toc, ok := session.TOC()
	if !ok {
		return nil, errors.New("no disc data in session")
	}

	report := &discReport{
		Device:     device,
		FirstTrack: toc.FirstTrack,
		LastTrack:  toc.LastTrack,
		Sectors:    toc.Sectors,
		Runtime:    discid.FormatMSF(toc.Sectors),
		TOC:        toc.String(),
	}
	report.DiscID, _ = session.ID()
	report.FreeDBID, _ = session.FreeDBID()
	report.SubmissionURL, _ = session.SubmissionURL()
	report.WebserviceURL, _ = session.WebserviceURL()

	if mcn, ok, err := session.MCN(); err == nil && ok {
		report.MCN = mcn
	}

	for _, track := range toc.Tracks {
		report.Tracks = append(report.Tracks, trackReport{
			Number:  track.Number,
			Offset:  track.Offset,
			Length:  track.Length,
			ISRC:    track.ISRC,
			Runtime: discid.FormatMSF(track.Length),
		})
	}
	return report, nil
}

func printReport(cmd *cobra.Command, report *discReport) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Disc ID:        %s\n", report.DiscID)
	fmt.Fprintf(out, "FreeDB ID:      %s\n", report.FreeDBID)
	fmt.Fprintf(out, "Tracks:         %d-%d\n", report.FirstTrack, report.LastTrack)
	fmt.Fprintf(out, "Length:         %s (%s sectors)\n", report.Runtime, numPrinter.Sprintf("%d", report.Sectors))
	if report.MCN != "" {
		fmt.Fprintf(out, "MCN:            %s\n", report.MCN)
	}
	fmt.Fprintf(out, "TOC:            %s\n", report.TOC)
	fmt.Fprintf(out, "Submit URL:     %s\n", report.SubmissionURL)
	fmt.Fprintf(out, "Lookup URL:     %s\n", report.WebserviceURL)
	fmt.Fprintln(out)

	rows := make([]table.Row, 0, len(report.Tracks))
	for _, track := range report.Tracks {
		rows = append(rows, table.Row{
			track.Number,
			numPrinter.Sprintf("%d", track.Offset),
			numPrinter.Sprintf("%d", track.Length),
			track.Runtime,
			track.ISRC,
		})
	}
	renderTable(out, table.Row{"Track", "Offset", "Sectors", "Length", "ISRC"}, rows)
}
