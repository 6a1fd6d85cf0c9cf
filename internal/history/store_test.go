package history

import (
	"context"
	"path/filepath"
	"testing"

	"discid/internal/config"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.Default()
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func sampleEntry(discID string) Entry {
	return Entry{
		DiscID:        discID,
		FreeDBID:      "0b04f002",
		Device:        "/dev/sr0",
		FirstTrack:    1,
		LastTrack:     2,
		Sectors:       95000,
		TOC:           "1 2 95000 150 25000",
		MCN:           "0602537479597",
		SubmissionURL: "http://musicbrainz.org/cdtoc/attach?id=x",
	}
}

func TestRecordAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entry, err := store.Record(ctx, sampleEntry("disc-a"))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.ID == 0 {
		t.Error("row ID not assigned")
	}
	if entry.SeenCount != 1 {
		t.Errorf("SeenCount = %d, want 1", entry.SeenCount)
	}
	if entry.FirstSeen.IsZero() || entry.LastSeen.IsZero() {
		t.Error("timestamps not recorded")
	}

	got, err := store.GetByDiscID(ctx, "disc-a")
	if err != nil {
		t.Fatalf("GetByDiscID: %v", err)
	}
	if got.FreeDBID != "0b04f002" || got.Sectors != 95000 || got.MCN != "0602537479597" {
		t.Errorf("round-tripped entry mismatch: %+v", got)
	}
}

func TestRecordBumpsSeenCount(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Record(ctx, sampleEntry("disc-a")); err != nil {
		t.Fatalf("first Record: %v", err)
	}

	again := sampleEntry("disc-a")
	again.Device = "/dev/sr1"
	entry, err := store.Record(ctx, again)
	if err != nil {
		t.Fatalf("second Record: %v", err)
	}
	if entry.SeenCount != 2 {
		t.Errorf("SeenCount = %d, want 2", entry.SeenCount)
	}
	if entry.Device != "/dev/sr1" {
		t.Errorf("Device = %q, want refreshed /dev/sr1", entry.Device)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("Count = %d, want 1 (same disc)", count)
	}
}

func TestRecordRejectsEmptyDiscID(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Record(context.Background(), Entry{DiscID: "  "}); err == nil {
		t.Error("expected error for empty disc ID")
	}
}

func TestListMostRecentFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"disc-a", "disc-b", "disc-c"} {
		if _, err := store.Record(ctx, sampleEntry(id)); err != nil {
			t.Fatalf("Record %s: %v", id, err)
		}
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].DiscID != "disc-c" || entries[2].DiscID != "disc-a" {
		t.Errorf("unexpected order: %s, %s, %s",
			entries[0].DiscID, entries[1].DiscID, entries[2].DiscID)
	}
}

func TestRemove(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entry, err := store.Record(ctx, sampleEntry("disc-a"))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Remove(ctx, entry.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, entry.ID); err == nil {
		t.Error("expected error removing missing entry")
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"disc-a", "disc-b"} {
		if _, err := store.Record(ctx, sampleEntry(id)); err != nil {
			t.Fatalf("Record %s: %v", id, err)
		}
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 2 {
		t.Errorf("Clear removed %d, want 2", removed)
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("Count after Clear = %d, want 0", count)
	}
}
