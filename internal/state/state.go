// ABOUTME: Local badger-backed cache of remote catalogue state.
// ABOUTME: Keeps the name-to-id mapping and last sync time between runs.
package state

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v3"
)

const (
	workoutPrefix = "workout:"
	lastSyncKey   = "meta:last_sync"
)

// Store caches remote workout ids so commands can resolve names without a
// network round trip. The cache is advisory; the syncer refreshes it on
// every remote list.
type Store struct {
	db *badger.DB
	mu sync.RWMutex
}

// Open opens (or creates) the cache at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// PutCatalogue replaces the cached name-to-id mapping and stamps the sync
// time.
func (s *Store) PutCatalogue(entries map[string]int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		// Drop stale entries first so deletions on the remote side are
		// reflected locally.
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(workoutPrefix)})
		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			name := string(key[len(workoutPrefix):])
			if _, ok := entries[name]; !ok {
				stale = append(stale, key)
			}
		}
		it.Close()
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for name, id := range entries {
			key := []byte(workoutPrefix + name)
			if err := txn.Set(key, []byte(strconv.FormatInt(id, 10))); err != nil {
				return err
			}
		}

		stamp, err := json.Marshal(time.Now().UTC())
		if err != nil {
			return err
		}
		return txn.Set([]byte(lastSyncKey), stamp)
	})
}

// Catalogue returns the full cached mapping.
func (s *Store) Catalogue() (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]int64{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(workoutPrefix)})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			name := string(item.Key()[len(workoutPrefix):])
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(string(val), 10, 64)
			if err != nil {
				return fmt.Errorf("corrupt catalogue entry %q: %w", name, err)
			}
			out[name] = id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LookupID resolves a cached workout name to its remote id.
func (s *Store) LookupID(name string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id int64
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(workoutPrefix + name))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		id, err = strconv.ParseInt(string(val), 10, 64)
		if err != nil {
			return fmt.Errorf("corrupt catalogue entry %q: %w", name, err)
		}
		found = true
		return nil
	})
	return id, found, err
}

// LastSync returns when the catalogue was last refreshed, zero if never.
func (s *Store) LastSync() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stamp time.Time
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(lastSyncKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return json.Unmarshal(val, &stamp)
	})
	return stamp, err
}
