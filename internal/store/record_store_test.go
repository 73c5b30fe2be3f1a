package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaushik-yadav/RAGFlow/internal/model"
)

func newRecord(path string, ingestedAt time.Time) model.DocumentRecord {
	return model.DocumentRecord{
		Path:       path,
		DocumentID: uuid.New(),
		IngestedAt: ingestedAt,
	}
}

func TestRecordStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")

	s := NewRecordStore(path)
	rec := newRecord("uploads/a.pdf", time.Now())
	s.Append(rec)
	require.NoError(t, s.Save())

	reloaded := NewRecordStore(path)
	got, ok := reloaded.Find("uploads/a.pdf")
	require.True(t, ok)
	assert.Equal(t, rec.DocumentID, got.DocumentID)
	assert.Equal(t, 1, reloaded.Len())
}

func TestRecordStoreMissingFileStartsEmpty(t *testing.T) {
	s := NewRecordStore(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, 0, s.Len())
}

func TestRecordStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"path": "trunc`), 0644))

	s := NewRecordStore(path)
	assert.Equal(t, 0, s.Len())
}

func TestRecordStoreFindByID(t *testing.T) {
	s := NewRecordStore(filepath.Join(t.TempDir(), "processed.json"))
	rec := newRecord("uploads/a.pdf", time.Now())
	s.Append(rec)

	got, ok := s.FindByID(rec.DocumentID)
	require.True(t, ok)
	assert.Equal(t, "uploads/a.pdf", got.Path)

	_, ok = s.FindByID(uuid.New())
	assert.False(t, ok)
}

func TestRecordStoreOldest(t *testing.T) {
	s := NewRecordStore(filepath.Join(t.TempDir(), "processed.json"))
	base := time.Now()
	newer := newRecord("b.pdf", base.Add(time.Minute))
	older := newRecord("a.pdf", base)
	s.Append(newer)
	s.Append(older)

	got, ok := s.Oldest()
	require.True(t, ok)
	assert.Equal(t, older.DocumentID, got.DocumentID)
}

func TestRecordStoreOldestTieBreaksByInsertionOrder(t *testing.T) {
	s := NewRecordStore(filepath.Join(t.TempDir(), "processed.json"))
	ts := time.Now()
	first := newRecord("a.pdf", ts)
	second := newRecord("b.pdf", ts)
	s.Append(first)
	s.Append(second)

	got, ok := s.Oldest()
	require.True(t, ok)
	assert.Equal(t, first.DocumentID, got.DocumentID)
}

func TestRecordStoreRemove(t *testing.T) {
	s := NewRecordStore(filepath.Join(t.TempDir(), "processed.json"))
	rec := newRecord("a.pdf", time.Now())
	s.Append(rec)
	s.Remove(rec.DocumentID)

	assert.Equal(t, 0, s.Len())
	_, ok := s.Find("a.pdf")
	assert.False(t, ok)
}

func TestRecordStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "processed.json")

	s := NewRecordStore(path)
	s.Append(newRecord("a.pdf", time.Now()))
	require.NoError(t, s.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "processed.json", entries[0].Name())

	// the written file is a well-formed JSON array
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []model.DocumentRecord
	require.NoError(t, json.Unmarshal(data, &records))
	assert.Len(t, records, 1)
}
