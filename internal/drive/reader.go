package drive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"discid/internal/discid"
	"discid/internal/logging"
)

// libraryVersion identifies this reader implementation in diagnostics and
// informational output.
const libraryVersion = "discid 1.0.0"

const lockRetryInterval = 250 * time.Millisecond

// features is computed once per process; capability is a build/platform
// property, not request-controllable.
var features = sync.OnceValue(platformFeatures)

// Features returns the capability set of this build and platform.
func Features() discid.FeatureSet {
	return features()
}

// Reader implements discid.TOCReader against the local optical drive.
type Reader struct {
	logger  *slog.Logger
	lockDir string
}

// NewReader constructs a drive reader. The logger may be nil.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{
		logger:  logging.NewComponentLogger(logger, "drive"),
		lockDir: os.TempDir(),
	}
}

// HasFeature reports a static platform capability.
func (r *Reader) HasFeature(f discid.Feature) bool {
	return Features().Contains(f)
}

// DefaultDevice returns the platform default drive.
func (r *Reader) DefaultDevice() string {
	return platformDefaultDevice()
}

// Version returns an informational version string.
func (r *Reader) Version() string {
	return libraryVersion
}

// ReadTOC reads the table of contents of the disc in the given device.
// Competing readers of the same device are serialized through a lock file;
// the context bounds both the lock wait and the device access.
func (r *Reader) ReadTOC(ctx context.Context, device string, requested discid.FeatureSet) (*discid.TOC, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		device = platformDefaultDevice()
	}
	if device == "" {
		return nil, fmt.Errorf("no device available on this platform")
	}

	lock := flock.New(r.lockPath(device))
	locked, err := lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("lock device %s: %w", device, err)
	}
	if !locked {
		return nil, fmt.Errorf("device %s is in use by another reader", device)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	start := time.Now()
	toc, err := readTOC(ctx, device, requested, r.logger)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("toc read complete",
		logging.String(logging.FieldDevice, device),
		logging.Int("tracks", len(toc.Tracks)),
		logging.Duration("elapsed", time.Since(start)))
	return toc, nil
}

func (r *Reader) lockPath(device string) string {
	name := strings.Trim(strings.ReplaceAll(device, string(os.PathSeparator), "-"), "-")
	return filepath.Join(r.lockDir, fmt.Sprintf("discid-%s.lock", name))
}
