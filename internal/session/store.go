package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/kugo-bot/kugo/pkg/kugou"
)

// Store holds each identity's most recent search results and playlist
// listing.
//
// Entries are replaced wholesale on every put and live for the process
// lifetime; there is no TTL or eviction. Concurrent puts to the same
// identity are last-writer-wins, which is accepted, but the maps are
// mutex-guarded so such races stay memory-safe.
//
// An optional backing file restores the cache across short-lived host
// invocations (the CLI front-end); the in-memory map remains the
// source of truth.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	filePath string
}

type entry struct {
	Search    []kugou.Track           `json:"search,omitempty"`
	Playlists []kugou.PlaylistSummary `json:"playlists,omitempty"`
}

// NewStore creates an in-memory session store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Open creates a session store backed by filePath, restoring any
// previously persisted entries. A missing or unreadable file starts
// the store fresh rather than failing the command.
func Open(filePath string) *Store {
	s := &Store{entries: make(map[string]*entry), filePath: filePath}
	s.restore()
	return s
}

// PutSearch replaces the identity's cached search results.
func (s *Store) PutSearch(identity string, tracks []kugou.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensure(identity).Search = append([]kugou.Track(nil), tracks...)
	return s.persist()
}

// Search returns the identity's cached search results, or ok=false
// when the identity has never searched.
func (s *Store) Search(identity string) ([]kugou.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[identity]
	if !ok || len(e.Search) == 0 {
		return nil, false
	}
	return append([]kugou.Track(nil), e.Search...), true
}

// PutPlaylists replaces the identity's cached playlist listing.
func (s *Store) PutPlaylists(identity string, lists []kugou.PlaylistSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensure(identity).Playlists = append([]kugou.PlaylistSummary(nil), lists...)
	return s.persist()
}

// Playlists returns the identity's cached playlist listing, or
// ok=false when the identity has never listed playlists.
func (s *Store) Playlists(identity string) ([]kugou.PlaylistSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[identity]
	if !ok || len(e.Playlists) == 0 {
		return nil, false
	}
	return append([]kugou.PlaylistSummary(nil), e.Playlists...), true
}

// ensure must be called with the write lock held.
func (s *Store) ensure(identity string) *entry {
	e, ok := s.entries[identity]
	if !ok {
		e = &entry{}
		s.entries[identity] = e
	}
	return e
}

// persist saves all entries to disk. Must be called with the lock
// held. A store without a backing file is memory-only.
func (s *Store) persist() error {
	if s.filePath == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return err
	}

	// Write atomically via temp file + rename
	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}

// restore loads persisted entries, ignoring errors: a corrupt cache
// only costs the user a fresh search.
func (s *Store) restore() {
	if s.filePath == "" {
		return
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return
	}

	var entries map[string]*entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.entries[k] = v
	}
}
