package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func openTestStore(t *testing.T, opts Options) *boltStore {
	t.Helper()
	raw, err := openBolt(filepath.Join(t.TempDir(), "watcher.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := raw.(*boltStore)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreMarksPerStatus(t *testing.T) {
	store := openTestStore(t, Options{})

	seen, err := store.SeenDownload("d1", "failed")
	if err != nil || seen {
		t.Fatalf("expected unseen download, seen=%v err=%v", seen, err)
	}

	if err := store.MarkDownload("d1", "failed"); err != nil {
		t.Fatalf("MarkDownload: %v", err)
	}
	seen, err = store.SeenDownload("d1", "failed")
	if err != nil || !seen {
		t.Fatalf("expected failed outcome seen, seen=%v err=%v", seen, err)
	}

	// Retried and completed: a new outcome for the same id.
	seen, err = store.SeenDownload("d1", "completed")
	if err != nil || seen {
		t.Fatalf("expected completed outcome unseen, seen=%v err=%v", seen, err)
	}
}

func TestBoltStoreExpiresEntries(t *testing.T) {
	store := openTestStore(t, Options{EntryTTL: time.Hour, CleanupInterval: time.Minute})

	base := time.Now()
	store.now = func() time.Time { return base }
	store.lastCleanup.Store(base.Unix())

	if err := store.MarkDownload("d1", "completed"); err != nil {
		t.Fatalf("MarkDownload: %v", err)
	}

	store.now = func() time.Time { return base.Add(2 * time.Hour) }
	seen, err := store.SeenDownload("d1", "completed")
	if err != nil {
		t.Fatalf("SeenDownload after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire")
	}

	var remaining int
	if err := store.db.View(func(tx *bolt.Tx) error {
		remaining = tx.Bucket([]byte(downloadBucket)).Stats().KeyN
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected cleanup to remove expired entry, %d left", remaining)
	}
}

func TestDecodeEntryRejectsShortValues(t *testing.T) {
	if _, _, ok := decodeEntry([]byte{1, 2}); ok {
		t.Fatalf("expected short value to be rejected")
	}
	expiry, status, ok := decodeEntry(encodeEntry(time.Unix(100, 0), "completed"))
	if !ok || status != "completed" || expiry.Unix() != 100 {
		t.Fatalf("round trip failed: %v %q %v", expiry, status, ok)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkDownload("x", "completed"); err != nil {
		t.Fatalf("noop store MarkDownload: %v", err)
	}
	if seen, _ := store.SeenDownload("x", "completed"); seen {
		t.Fatalf("noop store never reports seen")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
