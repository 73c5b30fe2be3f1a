package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/kaushik-yadav/RAGFlow/internal/model"
)

// RecordStore is the durable ledger of currently indexed documents. The file
// holds a JSON array of records, loaded at process start; a corrupt or missing
// file degrades to an empty ledger rather than failing startup. Save rewrites
// via temp file + rename so a crash mid-write never corrupts the ledger.
type RecordStore struct {
	path string

	mu      sync.RWMutex
	records []model.DocumentRecord
}

func NewRecordStore(path string) *RecordStore {
	s := &RecordStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("record store: read %s: %v, starting empty", path, err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		log.Printf("record store: %s is corrupt: %v, starting empty", path, err)
		s.records = nil
	}

	return s
}

// Find returns the record for a path, if the path has been ingested.
func (s *RecordStore) Find(path string) (model.DocumentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.Path == path {
			return r, true
		}
	}
	return model.DocumentRecord{}, false
}

// FindByID returns the record for a document id, if it is still active.
func (s *RecordStore) FindByID(id uuid.UUID) (model.DocumentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.DocumentID == id {
			return r, true
		}
	}
	return model.DocumentRecord{}, false
}

func (s *RecordStore) Append(rec model.DocumentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

func (s *RecordStore) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.DocumentID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return
		}
	}
}

// Oldest returns the record with the smallest ingestion timestamp. Ties are
// broken by insertion order, so selection is deterministic.
func (s *RecordStore) Oldest() (model.DocumentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return model.DocumentRecord{}, false
	}
	oldest := s.records[0]
	for _, r := range s.records[1:] {
		if r.IngestedAt.Before(oldest.IngestedAt) {
			oldest = r
		}
	}
	return oldest, true
}

func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// All returns a copy of the ledger.
func (s *RecordStore) All() []model.DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.DocumentRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Save writes the ledger atomically: marshal to a temp file in the same
// directory, then rename over the target.
func (s *RecordStore) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.records, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp record file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp record file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename record file: %w", err)
	}
	return nil
}
