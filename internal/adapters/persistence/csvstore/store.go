// Package csvstore persists the policy table as a flat delimited file.
//
// The file is the single source of truth: every mutation is written through
// before it is considered durable. A read-through cache of the parsed table
// is kept in memory and invalidated after each successful write, so readers
// only ever observe committed state plus, after a failed write, the pending
// edit that still needs to be flushed.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"insurtech-portal/internal/core/domain"
)

// Store is a file-backed policy repository with a read-through cache
type Store struct {
	mu     sync.Mutex
	path   string
	cache  []domain.Policy
	loaded bool
	dirty  bool // a write failed; cache holds the pending edit
	nextID uint // highest id ever seen + 1, ids are never reused
}

// New creates a store backed by the file at path. The file does not need to
// exist yet; a missing file reads as an empty table.
func New(path string) *Store {
	return &Store{path: path, nextID: 1}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Load returns a copy of the policy table, reading and migrating the backing
// file on first use and serving the cache afterwards
func (s *Store) Load() ([]domain.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		records, err := s.readFile()
		if err != nil {
			return nil, err
		}
		s.cache = records
		s.loaded = true
	}
	return clonePolicies(s.cache), nil
}

// SaveAll validates and persists the full table, then refreshes the cache and
// returns the table as persisted. IDs are assigned to records that do not
// carry one yet; released ids are never reused. When the write fails the
// attempted table is kept in memory as the pending edit so the caller can
// retry the save without losing work.
func (s *Store) SaveAll(records []domain.Policy) ([]domain.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records = clonePolicies(records)
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return nil, err
		}
		if records[i].ID == 0 {
			records[i].ID = s.nextID
			s.nextID++
		} else if records[i].ID >= s.nextID {
			s.nextID = records[i].ID + 1
		}
	}

	if err := s.writeFile(records); err != nil {
		s.cache = records
		s.loaded = true
		s.dirty = true
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	s.cache = records
	s.loaded = true
	s.dirty = false
	return clonePolicies(records), nil
}

// Invalidate drops the cache so the next Load re-reads the backing file.
// Pending edits from a failed write are kept, they are not yet on disk.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty {
		return
	}
	s.cache = nil
	s.loaded = false
}

// Dirty reports whether the cache holds an edit that failed to persist
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// readFile reads and migrates the backing file
func (s *Store) readFile() ([]domain.Policy, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("⚠️ Policy file %s not found, starting with an empty table", s.path)
			return []domain.Policy{}, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if len(rows) == 0 {
		return []domain.Policy{}, nil
	}

	cols, err := columnMap(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.Policy, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record, err := parseRecord(row, cols, i+2)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	// Migration step: track the highest id on file and assign fresh ids to
	// rows from files whose schema had no id column
	for i := range records {
		if records[i].ID >= s.nextID {
			s.nextID = records[i].ID + 1
		}
	}
	for i := range records {
		if records[i].ID == 0 {
			records[i].ID = s.nextID
			s.nextID++
		}
	}

	return records, nil
}

// writeFile writes the canonical schema atomically: a temp file in the same
// directory is populated, flushed and renamed over the target so a crash
// mid-write never leaves a truncated table behind
func (s *Store) writeFile(records []domain.Policy) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(canonicalHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, record := range records {
		if err := writer.Write(formatRecord(record)); err != nil {
			tmp.Close()
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, s.path)
}

func clonePolicies(records []domain.Policy) []domain.Policy {
	out := make([]domain.Policy, len(records))
	copy(out, records)
	return out
}
