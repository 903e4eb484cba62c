package storage

import (
	"testing"
	"time"
)

func TestBoltStoreMarksAndExpiresProjects(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		ProjectTTL:      1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(dir+"/seen.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	seen, err := store.SeenProject("PXD000001")
	if err != nil || seen {
		t.Fatalf("expected unseen project, seen=%v err=%v", seen, err)
	}

	if err := store.MarkProject("PXD000001"); err != nil {
		t.Fatalf("MarkProject: %v", err)
	}

	seen, err = store.SeenProject("PXD000001")
	if err != nil || !seen {
		t.Fatalf("expected project marked as seen, got seen=%v err=%v", seen, err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	seen, err = store.SeenProject("PXD000001")
	if err != nil {
		t.Fatalf("SeenProject after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire and be removed")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkProject("x"); err != nil {
		t.Fatalf("noop store MarkProject: %v", err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported storage type")
	}
}
