package discid

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"discid/internal/logging"
)

// Session owns at most one table of contents read from a disc. It is not
// safe for concurrent Read calls; derived queries are read-only and may run
// concurrently with each other once a read has completed. Callers needing
// parallel reads use independent sessions.
type Session struct {
	id       string
	reader   TOCReader
	registry *Registry
	logger   *slog.Logger

	toc    *TOC
	closed bool
}

// Option configures a session at construction time.
type Option func(*Session)

// WithLogger attaches a logger for read diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry overrides the capability registry derived from the reader.
func WithRegistry(registry *Registry) Option {
	return func(s *Session) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// NewSession acquires a session around the given collaborator. A missing
// collaborator is a resource allocation failure; no degraded session is
// returned.
func NewSession(reader TOCReader, opts ...Option) (*Session, error) {
	if reader == nil {
		return nil, fmt.Errorf("%w: no disc reader available", ErrResourceAllocation)
	}
	s := &Session{
		id:     uuid.NewString(),
		reader: reader,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = NewRegistry(reader)
	}
	s.logger = logging.NewComponentLogger(s.logger, "discid-session").With(
		logging.String("session_id", s.id))
	return s, nil
}

// SessionID returns the correlation identifier assigned at construction.
func (s *Session) SessionID() string {
	return s.id
}

// Registry returns the capability registry the session consults.
func (s *Session) Registry() *Registry {
	return s.registry
}

// Read acquires the table of contents from the given device. An empty device
// selects the collaborator's default. Requested features the build does not
// support are tolerated; only a missing read capability fails, before any
// device access. On failure the previously stored TOC, if any, is left
// untouched. On success the new TOC replaces it.
func (s *Session) Read(ctx context.Context, device string, features FeatureSet) error {
	if s.closed {
		return fmt.Errorf("%w: read", ErrSessionClosed)
	}
	if !s.registry.Supports(FeatureRead) {
		return unsupportedError(FeatureRead)
	}

	if device == "" {
		device = s.reader.DefaultDevice()
	}

	s.logger.Debug("reading disc toc",
		logging.String("device", device),
		logging.String("features", features.String()))

	toc, err := s.reader.ReadTOC(ctx, device, features)
	if err != nil {
		return readError(device, err)
	}
	if err := toc.Validate(); err != nil {
		return readError(device, err)
	}

	s.toc = toc.Clone()

	s.logger.Debug("disc toc stored",
		logging.String("disc_id", DiscID(s.toc)),
		logging.Int("tracks", len(s.toc.Tracks)),
		logging.Int("sectors", s.toc.Sectors))
	return nil
}

// Put installs a table of contents from caller-supplied geometry without
// touching a device: the first track number, the lead-out sector, and the
// per-track start offsets in track order. Track lengths are derived from
// adjacent offsets. The replace-on-success contract matches Read.
func (s *Session) Put(firstTrack, sectors int, offsets []int) error {
	if s.closed {
		return fmt.Errorf("%w: put", ErrSessionClosed)
	}
	if len(offsets) == 0 {
		return fmt.Errorf("toc: no track offsets supplied")
	}

	toc := &TOC{
		FirstTrack: firstTrack,
		LastTrack:  firstTrack + len(offsets) - 1,
		Sectors:    sectors,
		Tracks:     make([]Track, 0, len(offsets)),
	}
	for i, offset := range offsets {
		end := sectors
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		toc.Tracks = append(toc.Tracks, Track{
			Number: firstTrack + i,
			Offset: offset,
			Length: end - offset,
		})
	}
	if err := toc.Validate(); err != nil {
		return err
	}

	s.toc = toc
	return nil
}

// Close releases the underlying disc-access resource. It is safe to call
// more than once; only the first call releases. Subsequent reads fail and
// derived queries report absent.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.toc = nil
	if closer, ok := s.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// TOC returns a copy of the stored table of contents, if any.
func (s *Session) TOC() (*TOC, bool) {
	if s.toc == nil {
		return nil, false
	}
	return s.toc.Clone(), true
}

// ID returns the MusicBrainz disc ID once a read has completed.
func (s *Session) ID() (string, bool) {
	if s.toc == nil {
		return "", false
	}
	return DiscID(s.toc), true
}

// FreeDBID returns the legacy FreeDB identifier once a read has completed.
func (s *Session) FreeDBID() (string, bool) {
	if s.toc == nil {
		return "", false
	}
	return FreeDBID(s.toc), true
}

// SubmissionURL returns the MusicBrainz submission URL once a read has
// completed.
func (s *Session) SubmissionURL() (string, bool) {
	if s.toc == nil {
		return "", false
	}
	return SubmissionURL(s.toc), true
}

// WebserviceURL returns the MusicBrainz lookup URL once a read has completed.
func (s *Session) WebserviceURL() (string, bool) {
	if s.toc == nil {
		return "", false
	}
	return WebserviceURL(s.toc), true
}

// FirstTrack returns the number of the first audio track.
func (s *Session) FirstTrack() (int, bool) {
	if s.toc == nil {
		return 0, false
	}
	return s.toc.FirstTrack, true
}

// LastTrack returns the number of the last audio track.
func (s *Session) LastTrack() (int, bool) {
	if s.toc == nil {
		return 0, false
	}
	return s.toc.LastTrack, true
}

// Sectors returns the lead-out position, the total sector count of the disc.
func (s *Session) Sectors() (int, bool) {
	if s.toc == nil {
		return 0, false
	}
	return s.toc.Sectors, true
}

// TrackOffsets returns the lead-out-prepended geometry of the stored TOC.
func (s *Session) TrackOffsets() ([]int, bool) {
	if s.toc == nil {
		return nil, false
	}
	return s.toc.TrackOffsets(), true
}

// TrackLengths returns per-track lengths with the pregap at element 0.
func (s *Session) TrackLengths() ([]int, bool) {
	if s.toc == nil {
		return nil, false
	}
	return s.toc.TrackLengths(), true
}

// MCN returns the media catalog number. The capability gate applies before
// the read-state check: a build without MCN support fails even after a
// successful read.
func (s *Session) MCN() (string, bool, error) {
	if !s.registry.Supports(FeatureMCN) {
		return "", false, unsupportedError(FeatureMCN)
	}
	if s.toc == nil {
		return "", false, nil
	}
	return s.toc.MCN, true, nil
}

// TrackISRCs returns the per-track recording codes. The capability gate
// applies before the read-state check.
func (s *Session) TrackISRCs() ([]string, bool, error) {
	if !s.registry.Supports(FeatureISRC) {
		return nil, false, unsupportedError(FeatureISRC)
	}
	if s.toc == nil {
		return nil, false, nil
	}
	return s.toc.TrackISRCs(), true, nil
}
