// Package testsupport provides shared fakes for package tests.
package testsupport

import (
	"context"

	"discid/internal/discid"
)

// StubReader is a scriptable discid.TOCReader for tests. It records call
// activity so tests can assert whether the device was contacted.
type StubReader struct {
	Supported discid.FeatureSet
	TOC       *discid.TOC
	Err       error
	Device    string

	ReadCalls    int
	CloseCalls   int
	LastDevice   string
	LastFeatures discid.FeatureSet
}

// NewStubReader returns a reader supporting every feature and serving the
// given TOC.
func NewStubReader(toc *discid.TOC) *StubReader {
	return &StubReader{Supported: discid.AllFeatures, TOC: toc}
}

func (r *StubReader) HasFeature(f discid.Feature) bool {
	return r.Supported.Contains(f)
}

func (r *StubReader) ReadTOC(ctx context.Context, device string, features discid.FeatureSet) (*discid.TOC, error) {
	r.ReadCalls++
	r.LastDevice = device
	r.LastFeatures = features
	if r.Err != nil {
		return nil, r.Err
	}
	return r.TOC.Clone(), nil
}

func (r *StubReader) DefaultDevice() string {
	if r.Device == "" {
		return "/dev/stub"
	}
	return r.Device
}

func (r *StubReader) Version() string {
	return "stub 0.0.0"
}

func (r *StubReader) Close() error {
	r.CloseCalls++
	return nil
}

// FixtureTOC returns a small two-track disc layout with a catalog number
// and per-track recording codes.
func FixtureTOC() *discid.TOC {
	return &discid.TOC{
		FirstTrack: 1,
		LastTrack:  2,
		Sectors:    95000,
		MCN:        "0602537479597",
		Tracks: []discid.Track{
			{Number: 1, Offset: 150, Length: 24850, ISRC: "USRC17607839"},
			{Number: 2, Offset: 25000, Length: 70000, ISRC: "USRC17607840"},
		},
	}
}
