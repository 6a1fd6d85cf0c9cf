package discid_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"discid/internal/discid"
	"discid/internal/testsupport"
)

func newReadSession(t *testing.T) (*discid.Session, *testsupport.StubReader) {
	t.Helper()
	reader := testsupport.NewStubReader(testsupport.FixtureTOC())
	session, err := discid.NewSession(reader)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := session.Read(context.Background(), "", discid.AllFeatures); err != nil {
		t.Fatalf("Read: %v", err)
	}
	return session, reader
}

func TestNewSessionNilReader(t *testing.T) {
	session, err := discid.NewSession(nil)
	if session != nil {
		t.Error("expected nil session")
	}
	if !errors.Is(err, discid.ErrResourceAllocation) {
		t.Errorf("error = %v, want ErrResourceAllocation", err)
	}
}

func TestQueriesAbsentBeforeRead(t *testing.T) {
	session, err := discid.NewSession(testsupport.NewStubReader(testsupport.FixtureTOC()))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if _, ok := session.ID(); ok {
		t.Error("ID present before read")
	}
	if _, ok := session.FreeDBID(); ok {
		t.Error("FreeDBID present before read")
	}
	if _, ok := session.SubmissionURL(); ok {
		t.Error("SubmissionURL present before read")
	}
	if _, ok := session.FirstTrack(); ok {
		t.Error("FirstTrack present before read")
	}
	if _, ok := session.Sectors(); ok {
		t.Error("Sectors present before read")
	}
	if _, ok := session.TrackOffsets(); ok {
		t.Error("TrackOffsets present before read")
	}
	if _, ok := session.TOC(); ok {
		t.Error("TOC present before read")
	}

	// Supported catalog queries report absent without error before a read.
	if _, ok, err := session.MCN(); err != nil || ok {
		t.Errorf("MCN before read = (ok=%v, err=%v), want absent without error", ok, err)
	}
	if _, ok, err := session.TrackISRCs(); err != nil || ok {
		t.Errorf("TrackISRCs before read = (ok=%v, err=%v), want absent without error", ok, err)
	}
}

func TestReadStoresTOC(t *testing.T) {
	session, reader := newReadSession(t)

	if reader.ReadCalls != 1 {
		t.Errorf("ReadCalls = %d, want 1", reader.ReadCalls)
	}
	if reader.LastDevice != reader.DefaultDevice() {
		t.Errorf("empty device not resolved to default: %q", reader.LastDevice)
	}

	if id, ok := session.ID(); !ok || id == "" {
		t.Errorf("ID = (%q, %v)", id, ok)
	}
	if first, ok := session.FirstTrack(); !ok || first != 1 {
		t.Errorf("FirstTrack = (%d, %v)", first, ok)
	}
	if last, ok := session.LastTrack(); !ok || last != 2 {
		t.Errorf("LastTrack = (%d, %v)", last, ok)
	}
	if sectors, ok := session.Sectors(); !ok || sectors != 95000 {
		t.Errorf("Sectors = (%d, %v)", sectors, ok)
	}

	offsets, ok := session.TrackOffsets()
	if !ok || len(offsets) != 3 || offsets[0] != 95000 {
		t.Errorf("TrackOffsets = (%v, %v)", offsets, ok)
	}
	lengths, ok := session.TrackLengths()
	if !ok || lengths[0] != 150 {
		t.Errorf("TrackLengths = (%v, %v)", lengths, ok)
	}

	mcn, ok, err := session.MCN()
	if err != nil || !ok || mcn != "0602537479597" {
		t.Errorf("MCN = (%q, %v, %v)", mcn, ok, err)
	}
	isrcs, ok, err := session.TrackISRCs()
	if err != nil || !ok || len(isrcs) != 2 || isrcs[0] != "USRC17607839" {
		t.Errorf("TrackISRCs = (%v, %v, %v)", isrcs, ok, err)
	}
}

func TestReadUnsupportedSkipsDevice(t *testing.T) {
	reader := testsupport.NewStubReader(testsupport.FixtureTOC())
	reader.Supported = 0

	session, err := discid.NewSession(reader)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	err = session.Read(context.Background(), "", discid.AllFeatures)
	if !errors.Is(err, discid.ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
	if reader.ReadCalls != 0 {
		t.Errorf("device contacted %d times despite missing read capability", reader.ReadCalls)
	}
}

func TestFailedReadPreservesPriorTOC(t *testing.T) {
	session, reader := newReadSession(t)
	idBefore, _ := session.ID()

	reader.Err = errors.New("medium not present")
	err := session.Read(context.Background(), "/dev/sr0", discid.AllFeatures)
	if !errors.Is(err, discid.ErrDiscRead) {
		t.Fatalf("error = %v, want ErrDiscRead", err)
	}
	if !strings.Contains(err.Error(), "medium not present") {
		t.Errorf("collaborator diagnostic not preserved: %v", err)
	}

	idAfter, ok := session.ID()
	if !ok || idAfter != idBefore {
		t.Errorf("failed read disturbed stored TOC: %q -> (%q, %v)", idBefore, idAfter, ok)
	}
}

func TestReadReplacesOnSuccess(t *testing.T) {
	session, reader := newReadSession(t)
	idBefore, _ := session.ID()

	next := testsupport.FixtureTOC()
	next.Sectors = 123456
	next.Tracks[1].Length = 123456 - next.Tracks[1].Offset
	reader.TOC = next

	if err := session.Read(context.Background(), "", discid.AllFeatures); err != nil {
		t.Fatalf("Read: %v", err)
	}
	idAfter, _ := session.ID()
	if idAfter == idBefore {
		t.Error("successful re-read did not replace the stored TOC")
	}
}

func TestReadRejectsInvalidTOC(t *testing.T) {
	reader := testsupport.NewStubReader(&discid.TOC{FirstTrack: 0, LastTrack: 0, Sectors: 0})
	session, err := discid.NewSession(reader)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	err = session.Read(context.Background(), "", discid.AllFeatures)
	if !errors.Is(err, discid.ErrDiscRead) {
		t.Errorf("error = %v, want ErrDiscRead", err)
	}
	if _, ok := session.TOC(); ok {
		t.Error("invalid TOC was stored")
	}
}

func TestCatalogGateBeforeReadState(t *testing.T) {
	reader := testsupport.NewStubReader(testsupport.FixtureTOC())
	reader.Supported = discid.FeatureSet(discid.FeatureRead)

	session, err := discid.NewSession(reader)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := session.Read(context.Background(), "", discid.AllFeatures); err != nil {
		t.Fatalf("Read: %v", err)
	}

	// The capability gate fires even though a read completed.
	if _, _, err := session.MCN(); !errors.Is(err, discid.ErrUnsupported) {
		t.Errorf("MCN error = %v, want ErrUnsupported", err)
	}
	if _, _, err := session.TrackISRCs(); !errors.Is(err, discid.ErrUnsupported) {
		t.Errorf("TrackISRCs error = %v, want ErrUnsupported", err)
	}
}

func TestPutDerivesLengths(t *testing.T) {
	session, err := discid.NewSession(testsupport.NewStubReader(nil))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if err := session.Put(1, 95000, []int{150, 25000}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	freedb, ok := session.FreeDBID()
	if !ok || freedb != "0b04f002" {
		t.Errorf("FreeDBID = (%q, %v), want 0b04f002", freedb, ok)
	}

	lengths, ok := session.TrackLengths()
	if !ok || lengths[0] != 150 || lengths[1] != 24850 || lengths[2] != 70000 {
		t.Errorf("TrackLengths = (%v, %v)", lengths, ok)
	}
}

func TestPutRejectsBadGeometry(t *testing.T) {
	session, err := discid.NewSession(testsupport.NewStubReader(nil))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if err := session.Put(1, 95000, nil); err == nil {
		t.Error("expected error for empty offsets")
	}
	if err := session.Put(1, 100, []int{150, 25000}); err == nil {
		t.Error("expected error for leadout before offsets")
	}
	if _, ok := session.TOC(); ok {
		t.Error("rejected Put stored a TOC")
	}
}

func TestCloseIdempotent(t *testing.T) {
	session, reader := newReadSession(t)

	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if reader.CloseCalls != 1 {
		t.Errorf("CloseCalls = %d, want 1", reader.CloseCalls)
	}

	if _, ok := session.ID(); ok {
		t.Error("ID present after close")
	}
	if err := session.Read(context.Background(), "", discid.AllFeatures); !errors.Is(err, discid.ErrSessionClosed) {
		t.Errorf("Read after close = %v, want ErrSessionClosed", err)
	}
	if err := session.Put(1, 1000, []int{0, 500}); !errors.Is(err, discid.ErrSessionClosed) {
		t.Errorf("Put after close = %v, want ErrSessionClosed", err)
	}
}

func TestSessionIDAssigned(t *testing.T) {
	a, err := discid.NewSession(testsupport.NewStubReader(nil))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	b, err := discid.NewSession(testsupport.NewStubReader(nil))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if a.SessionID() == "" || a.SessionID() == b.SessionID() {
		t.Errorf("session IDs not unique: %q vs %q", a.SessionID(), b.SessionID())
	}
}

func TestWithRegistryOverride(t *testing.T) {
	reader := testsupport.NewStubReader(testsupport.FixtureTOC())
	session, err := discid.NewSession(reader,
		discid.WithRegistry(discid.NewStaticRegistry(0)))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	err = session.Read(context.Background(), "", discid.AllFeatures)
	if !errors.Is(err, discid.ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported from overridden registry", err)
	}
}
