package discid

import (
	"fmt"
	"strconv"
	"strings"
)

// SectorsPerSecond is the CD frame rate: 75 sectors of audio per second.
const SectorsPerSecond = 75

// maxTrackNumber is the highest track number the CD-DA format allows.
const maxTrackNumber = 99

// Track is one entry of a disc's table of contents. Offset and Length are
// expressed in sectors; Offset includes the standard 150-sector lead-in gap.
type Track struct {
	Number int
	Offset int
	Length int
	ISRC   string
}

// TOC is the raw result of a successful read: the audio track layout of a
// disc plus the optional catalog number and per-track recording codes.
// Tracks are ordered by track number from FirstTrack to LastTrack.
type TOC struct {
	FirstTrack int
	LastTrack  int
	Sectors    int
	MCN        string
	Tracks     []Track
}

// Validate checks the structural invariants of the table of contents.
func (t *TOC) Validate() error {
	if t == nil {
		return fmt.Errorf("toc: nil")
	}
	if t.FirstTrack < 1 || t.FirstTrack > maxTrackNumber {
		return fmt.Errorf("toc: first track %d out of range 1..%d", t.FirstTrack, maxTrackNumber)
	}
	if t.LastTrack < t.FirstTrack || t.LastTrack > maxTrackNumber {
		return fmt.Errorf("toc: last track %d out of range %d..%d", t.LastTrack, t.FirstTrack, maxTrackNumber)
	}
	want := t.LastTrack - t.FirstTrack + 1
	if len(t.Tracks) != want {
		return fmt.Errorf("toc: %d tracks listed, expected %d", len(t.Tracks), want)
	}
	prev := -1
	for i, track := range t.Tracks {
		if track.Number != t.FirstTrack+i {
			return fmt.Errorf("toc: track %d listed at position %d, expected track %d", track.Number, i, t.FirstTrack+i)
		}
		if track.Offset < 0 {
			return fmt.Errorf("toc: track %d has negative offset %d", track.Number, track.Offset)
		}
		if track.Offset < prev {
			return fmt.Errorf("toc: track %d offset %d precedes previous offset %d", track.Number, track.Offset, prev)
		}
		if track.Length < 0 {
			return fmt.Errorf("toc: track %d has negative length %d", track.Number, track.Length)
		}
		prev = track.Offset
	}
	if t.Sectors < prev {
		return fmt.Errorf("toc: leadout %d precedes last track offset %d", t.Sectors, prev)
	}
	return nil
}

// Clone returns a deep copy of the table of contents.
func (t *TOC) Clone() *TOC {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Tracks = make([]Track, len(t.Tracks))
	copy(cp.Tracks, t.Tracks)
	return &cp
}

// TrackOffsets returns the disc geometry with the lead-out prepended:
// element 0 is the total sector count, elements 1..N are the per-track start
// offsets in track order. Downstream identifier computation treats the
// lead-out uniformly as track 0.
func (t *TOC) TrackOffsets() []int {
	offsets := make([]int, 0, len(t.Tracks)+1)
	offsets = append(offsets, t.Sectors)
	for _, track := range t.Tracks {
		offsets = append(offsets, track.Offset)
	}
	return offsets
}

// TrackLengths returns per-track lengths with the same indexing as
// TrackOffsets: element 0 is the pregap of the first audio track (its start
// offset read as a duration), elements 1..N are the native track lengths.
func (t *TOC) TrackLengths() []int {
	lengths := make([]int, 0, len(t.Tracks)+1)
	pregap := 0
	if len(t.Tracks) > 0 {
		pregap = t.Tracks[0].Offset
	}
	lengths = append(lengths, pregap)
	for _, track := range t.Tracks {
		lengths = append(lengths, track.Length)
	}
	return lengths
}

// TrackISRCs returns the per-track recording codes in track order. Tracks
// without a code yield an empty string.
func (t *TOC) TrackISRCs() []string {
	isrcs := make([]string, 0, len(t.Tracks))
	for _, track := range t.Tracks {
		isrcs = append(isrcs, track.ISRC)
	}
	return isrcs
}

// String renders the geometry in the MusicBrainz TOC form:
// "first last leadout offset...".
func (t *TOC) String() string {
	parts := make([]string, 0, len(t.Tracks)+3)
	parts = append(parts, strconv.Itoa(t.FirstTrack), strconv.Itoa(t.LastTrack), strconv.Itoa(t.Sectors))
	for _, track := range t.Tracks {
		parts = append(parts, strconv.Itoa(track.Offset))
	}
	return strings.Join(parts, " ")
}

// FormatMSF renders a sector count as minutes:seconds.frames.
func FormatMSF(sectors int) string {
	if sectors < 0 {
		sectors = 0
	}
	frames := sectors % SectorsPerSecond
	seconds := sectors / SectorsPerSecond
	return fmt.Sprintf("%d:%02d.%02d", seconds/60, seconds%60, frames)
}
