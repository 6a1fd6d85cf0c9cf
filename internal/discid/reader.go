package discid

import "context"

// TOCReader is the collaborator boundary to the native disc-reading
// capability. ReadTOC is the only fallible, blocking operation; it may take
// as long as the physical drive needs, so callers bound it with the context.
type TOCReader interface {
	// HasFeature reports a static build/platform capability.
	HasFeature(Feature) bool

	// ReadTOC reads the table of contents of the disc in the given device.
	// An empty device selects the collaborator's default. Requested features
	// the collaborator does not support are ignored. The returned error text
	// is an opaque diagnostic.
	ReadTOC(ctx context.Context, device string, features FeatureSet) (*TOC, error)

	// DefaultDevice returns the platform default device identifier.
	DefaultDevice() string

	// Version returns an informational version string.
	Version() string
}
