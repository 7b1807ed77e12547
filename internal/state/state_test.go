// ABOUTME: Tests for the badger-backed catalogue cache.
// ABOUTME: Verifies replacement semantics and point lookups.
package state

import (
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutAndLookup(t *testing.T) {
	s := openTestStore(t)

	err := s.PutCatalogue(map[string]int64{
		"PLAN_ W01S01 Easy":  111,
		"PLAN_ W01S02 Tempo": 222,
	})
	if err != nil {
		t.Fatalf("PutCatalogue: %v", err)
	}

	id, ok, err := s.LookupID("PLAN_ W01S01 Easy")
	if err != nil || !ok || id != 111 {
		t.Errorf("LookupID = (%d, %v, %v), want (111, true, nil)", id, ok, err)
	}

	if _, ok, _ := s.LookupID("missing"); ok {
		t.Error("LookupID found a name that was never cached")
	}
}

func TestPutCatalogueDropsStaleEntries(t *testing.T) {
	s := openTestStore(t)

	if err := s.PutCatalogue(map[string]int64{"old": 1, "kept": 2}); err != nil {
		t.Fatalf("PutCatalogue: %v", err)
	}
	if err := s.PutCatalogue(map[string]int64{"kept": 2, "new": 3}); err != nil {
		t.Fatalf("PutCatalogue: %v", err)
	}

	cat, err := s.Catalogue()
	if err != nil {
		t.Fatalf("Catalogue: %v", err)
	}
	if len(cat) != 2 {
		t.Errorf("catalogue has %d entries, want 2: %v", len(cat), cat)
	}
	if _, ok := cat["old"]; ok {
		t.Error("stale entry survived a refresh")
	}
}

func TestLastSync(t *testing.T) {
	s := openTestStore(t)

	stamp, err := s.LastSync()
	if err != nil {
		t.Fatalf("LastSync: %v", err)
	}
	if !stamp.IsZero() {
		t.Errorf("fresh store has last sync %v, want zero", stamp)
	}

	if err := s.PutCatalogue(map[string]int64{"x": 1}); err != nil {
		t.Fatalf("PutCatalogue: %v", err)
	}
	stamp, err = s.LastSync()
	if err != nil {
		t.Fatalf("LastSync: %v", err)
	}
	if stamp.IsZero() {
		t.Error("last sync not stamped after a refresh")
	}
}
