package config

import (
	"sync"
)

// Store owns the live Aggregate for a configuration directory and replaces
// it wholesale on reload. Aggregates handed out by Current are never
// modified, so readers keep a consistent view across reloads.
type Store struct {
	dir string

	// reloadLock serializes reloads so that a slow load can't overwrite the
	// result of a newer one.
	reloadLock sync.Mutex

	lock    sync.RWMutex
	current Aggregate
}

// NewStore creates a Store and performs the initial load of `dir`.
func NewStore(dir string) (*Store, Report) {
	s := &Store{dir: dir}
	report := s.Reload()
	return s, report
}

// Dir returns the configuration directory the store loads from.
func (s *Store) Dir() string {
	return s.dir
}

// Current returns the most recently loaded Aggregate.
func (s *Store) Current() Aggregate {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.current
}

// Reload loads the configuration directory again and swaps the result in.
func (s *Store) Reload() Report {
	s.reloadLock.Lock()
	defer s.reloadLock.Unlock()

	agg, report := Load(s.dir)

	s.lock.Lock()
	s.current = agg
	s.lock.Unlock()
	return report
}
