package discid_test

import (
	"testing"

	"discid/internal/discid"
	"discid/internal/testsupport"
)

func TestFeatureLabel(t *testing.T) {
	tests := []struct {
		feature discid.Feature
		want    string
	}{
		{discid.FeatureRead, "read"},
		{discid.FeatureMCN, "mcn"},
		{discid.FeatureISRC, "isrc"},
		{discid.Feature(1 << 10), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.feature.Label(); got != tt.want {
			t.Errorf("Label(%d) = %q, want %q", tt.feature, got, tt.want)
		}
	}
}

func TestFeatureSetOperations(t *testing.T) {
	set := discid.FeatureSet(0).With(discid.FeatureRead).With(discid.FeatureISRC)

	if !set.Contains(discid.FeatureRead) {
		t.Error("expected set to contain read")
	}
	if set.Contains(discid.FeatureMCN) {
		t.Error("expected set to not contain mcn")
	}

	set = set.Without(discid.FeatureISRC)
	if set.Contains(discid.FeatureISRC) {
		t.Error("expected isrc removed")
	}

	if got := discid.AllFeatures.String(); got != "read,mcn,isrc" {
		t.Errorf("AllFeatures.String() = %q, want %q", got, "read,mcn,isrc")
	}
	if got := discid.FeatureSet(0).String(); got != "none" {
		t.Errorf("empty set String() = %q, want %q", got, "none")
	}
}

func TestNewRegistryQueriesReader(t *testing.T) {
	reader := testsupport.NewStubReader(nil)
	reader.Supported = discid.AllFeatures.Without(discid.FeatureISRC)

	registry := discid.NewRegistry(reader)

	if !registry.Supports(discid.FeatureRead) {
		t.Error("expected read supported")
	}
	if !registry.Supports(discid.FeatureMCN) {
		t.Error("expected mcn supported")
	}
	if registry.Supports(discid.FeatureISRC) {
		t.Error("expected isrc unsupported")
	}

	supported := registry.Supported()
	if len(supported) != 2 || supported[0] != discid.FeatureRead || supported[1] != discid.FeatureMCN {
		t.Errorf("Supported() = %v", supported)
	}
}

func TestNewRegistryNilReader(t *testing.T) {
	registry := discid.NewRegistry(nil)
	if registry.Supports(discid.FeatureRead) {
		t.Error("nil reader must yield an empty registry")
	}
	if len(registry.Supported()) != 0 {
		t.Errorf("Supported() = %v, want empty", registry.Supported())
	}
}

func TestStaticRegistry(t *testing.T) {
	registry := discid.NewStaticRegistry(discid.FeatureSet(discid.FeatureMCN))
	if registry.Supports(discid.FeatureRead) {
		t.Error("expected read unsupported")
	}
	if !registry.Supports(discid.FeatureMCN) {
		t.Error("expected mcn supported")
	}
	if registry.Set() != discid.FeatureSet(discid.FeatureMCN) {
		t.Errorf("Set() = %v", registry.Set())
	}
}
