package drive

import "testing"

func TestParseMCN(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"valid catalog number", []byte("0602537479597\x00"), "0602537479597"},
		{"no terminator", []byte("0602537479597"), "0602537479597"},
		{"all zeros means absent", []byte("0000000000000\x00"), ""},
		{"empty buffer", nil, ""},
		{"padded with spaces", []byte("  0602537479597  \x00"), "0602537479597"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseMCN(tt.raw); got != tt.want {
				t.Errorf("parseMCN(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func subChannelBlock(tcval bool, isrc string) []byte {
	data := make([]byte, 24)
	if tcval {
		data[8] = 0x80
	}
	copy(data[9:21], isrc)
	return data
}

func TestParseISRC(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		want   string
		wantOK bool
	}{
		{"valid code", subChannelBlock(true, "USRC17607839"), "USRC17607839", true},
		{"tcval clear", subChannelBlock(false, "USRC17607839"), "", false},
		{"lowercase rejected", subChannelBlock(true, "usrc17607839"), "", false},
		{"embedded nul rejected", subChannelBlock(true, "USRC176078"), "", false},
		{"short buffer", []byte{0x00, 0x01}, "", false},
		{"empty", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseISRC(tt.data)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("parseISRC() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDriveStatusString(t *testing.T) {
	tests := []struct {
		status DriveStatus
		want   string
	}{
		{DriveStatusNoInfo, "no_info"},
		{DriveStatusNoDisc, "no_disc"},
		{DriveStatusTrayOpen, "tray_open"},
		{DriveStatusNotReady, "not_ready"},
		{DriveStatusDiscOK, "disc_ok"},
		{DriveStatus(99), "unknown(99)"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("DriveStatus(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestReaderLockPath(t *testing.T) {
	r := NewReader(nil)
	r.lockDir = "/tmp"

	got := r.lockPath("/dev/sr0")
	want := "/tmp/discid-dev-sr0.lock"
	if got != want {
		t.Errorf("lockPath = %q, want %q", got, want)
	}
}

func TestReaderCapabilitiesConsistent(t *testing.T) {
	r := NewReader(nil)
	set := Features()
	for _, f := range set.Features() {
		if !r.HasFeature(f) {
			t.Errorf("reader denies feature %s from its own set", f.Label())
		}
	}
}
