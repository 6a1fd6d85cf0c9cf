package discid

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	submissionEndpoint = "http://musicbrainz.org/cdtoc/attach"
	webserviceEndpoint = "http://musicbrainz.org/ws/2/discid"
)

// discIDEncoding is base64 with the URL-hostile characters '+', '/' and '='
// replaced by '.', '_' and '-', matching the reference encoding used by the
// MusicBrainz service.
var discIDEncoding = base64.NewEncoding(
	"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789._",
).WithPadding('-')

// DiscID computes the MusicBrainz disc ID for the table of contents. The
// hash covers the first and last track numbers and a fixed 100-entry offset
// table with the lead-out at index 0, so the same geometry always produces
// the same identifier.
func DiscID(t *TOC) string {
	var table [maxTrackNumber + 1]int
	table[0] = t.Sectors
	for _, track := range t.Tracks {
		if track.Number >= 1 && track.Number <= maxTrackNumber {
			table[track.Number] = track.Offset
		}
	}

	h := sha1.New()
	fmt.Fprintf(h, "%02X", t.FirstTrack)
	fmt.Fprintf(h, "%02X", t.LastTrack)
	for _, offset := range table {
		fmt.Fprintf(h, "%08X", offset)
	}
	return discIDEncoding.EncodeToString(h.Sum(nil))
}

// FreeDBID computes the legacy FreeDB identifier (without category prefix)
// for the table of contents.
func FreeDBID(t *TOC) string {
	n := 0
	for _, track := range t.Tracks {
		n += digitSum(track.Offset / SectorsPerSecond)
	}
	length := t.Sectors / SectorsPerSecond
	if len(t.Tracks) > 0 {
		length -= t.Tracks[0].Offset / SectorsPerSecond
	}
	id := uint32(n%0xff)<<24 | uint32(length)<<8 | uint32(len(t.Tracks))
	return fmt.Sprintf("%08x", id)
}

// SubmissionURL builds the URL that submits this table of contents to the
// MusicBrainz service: disc ID, track count, and the full geometry as query
// parameters against the fixed attach endpoint.
func SubmissionURL(t *TOC) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s?id=%s", submissionEndpoint, DiscID(t))
	fmt.Fprintf(&b, "&tracks=%d", t.LastTrack-t.FirstTrack+1)
	fmt.Fprintf(&b, "&toc=%d+%d+%d", t.FirstTrack, t.LastTrack, t.Sectors)
	for _, track := range t.Tracks {
		fmt.Fprintf(&b, "+%d", track.Offset)
	}
	return b.String()
}

// WebserviceURL builds the fixed lookup endpoint path for the disc ID.
func WebserviceURL(t *TOC) string {
	return fmt.Sprintf("%s/%s", webserviceEndpoint, DiscID(t))
}

func digitSum(n int) int {
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}
