package discid

import "strings"

// Feature identifies an optional capability of the disc-reading collaborator.
type Feature uint32

const (
	// FeatureRead is the baseline TOC read capability.
	FeatureRead Feature = 1 << iota
	// FeatureMCN is retrieval of the media catalog number.
	FeatureMCN
	// FeatureISRC is retrieval of per-track recording codes.
	FeatureISRC
)

// allFeatures lists every defined feature in canonical order.
var allFeatures = []Feature{FeatureRead, FeatureMCN, FeatureISRC}

// Label returns the canonical string label for the feature.
func (f Feature) Label() string {
	switch f {
	case FeatureRead:
		return "read"
	case FeatureMCN:
		return "mcn"
	case FeatureISRC:
		return "isrc"
	default:
		return "unknown"
	}
}

// FeatureSet is a combination of Feature values.
type FeatureSet uint32

// AllFeatures requests every capability the collaborator may support.
const AllFeatures = FeatureSet(FeatureRead | FeatureMCN | FeatureISRC)

// Contains reports whether the set includes the given feature.
func (s FeatureSet) Contains(f Feature) bool {
	return s&FeatureSet(f) != 0
}

// With returns a copy of the set with the feature added.
func (s FeatureSet) With(f Feature) FeatureSet {
	return s | FeatureSet(f)
}

// Without returns a copy of the set with the feature removed.
func (s FeatureSet) Without(f Feature) FeatureSet {
	return s &^ FeatureSet(f)
}

// Features lists the members of the set in canonical order.
func (s FeatureSet) Features() []Feature {
	out := make([]Feature, 0, len(allFeatures))
	for _, f := range allFeatures {
		if s.Contains(f) {
			out = append(out, f)
		}
	}
	return out
}

// String renders the set as a comma-separated list of labels.
func (s FeatureSet) String() string {
	features := s.Features()
	if len(features) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(features))
	for _, f := range features {
		labels = append(labels, f.Label())
	}
	return strings.Join(labels, ",")
}

// Registry is an immutable snapshot of the capabilities the collaborator
// supports on this platform and build. It is constructed once and only
// queried afterwards.
type Registry struct {
	supported FeatureSet
}

// NewRegistry queries the reader once per defined feature and freezes the
// result. A nil reader produces an empty registry.
func NewRegistry(reader TOCReader) *Registry {
	var supported FeatureSet
	if reader != nil {
		for _, f := range allFeatures {
			if reader.HasFeature(f) {
				supported = supported.With(f)
			}
		}
	}
	return &Registry{supported: supported}
}

// NewStaticRegistry builds a registry from a fixed feature set. Intended for
// collaborators that publish their capabilities as a mask.
func NewStaticRegistry(supported FeatureSet) *Registry {
	return &Registry{supported: supported}
}

// Supports reports whether the feature is available.
func (r *Registry) Supports(f Feature) bool {
	if r == nil {
		return false
	}
	return r.supported.Contains(f)
}

// Supported lists the available features in canonical order.
func (r *Registry) Supported() []Feature {
	if r == nil {
		return nil
	}
	return r.supported.Features()
}

// Set returns the registry contents as a feature set.
func (r *Registry) Set() FeatureSet {
	if r == nil {
		return 0
	}
	return r.supported
}
