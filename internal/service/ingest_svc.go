package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kaushik-yadav/RAGFlow/internal/extract"
	"github.com/kaushik-yadav/RAGFlow/internal/model"
	"github.com/kaushik-yadav/RAGFlow/internal/store"
)

// Extractor turns a source file into raw structured content.
type Extractor interface {
	Extract(ctx context.Context, path string) (*extract.Extraction, error)
}

// Captioner describes an image; an empty string means no caption is available
// and the image is skipped.
type Captioner interface {
	Caption(ctx context.Context, imagePath string) string
}

// IndexStore is the embedding-backed index of retrievable units.
type IndexStore interface {
	Add(ctx context.Context, units []model.Unit) error
	Search(ctx context.Context, query string, documentID uuid.UUID, k int) ([]RetrievedUnit, error)
	UnitIDs(ctx context.Context, documentID uuid.UUID) ([]uuid.UUID, error)
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}

// ProvenanceKeeper stores the original content behind each unit.
type ProvenanceKeeper interface {
	MSet(ctx context.Context, entries map[uuid.UUID]string) error
	Delete(ctx context.Context, ids []uuid.UUID) error
}

// IngestService runs the ingestion pipeline: extract, caption, index, record,
// evict. Calls are serialized behind a mutex; retrieval never takes it and only
// observes documents whose record has been committed.
type IngestService struct {
	mu sync.Mutex

	extractor  Extractor
	captioner  Captioner
	index      IndexStore
	provenance ProvenanceKeeper
	records    *store.RecordStore
	maxDocs    int
}

func NewIngestService(extractor Extractor, captioner Captioner, index IndexStore, provenance ProvenanceKeeper, records *store.RecordStore, maxDocs int) *IngestService {
	if maxDocs <= 0 {
		maxDocs = 5
	}
	return &IngestService{
		extractor:  extractor,
		captioner:  captioner,
		index:      index,
		provenance: provenance,
		records:    records,
		maxDocs:    maxDocs,
	}
}

// Ingest processes one document and returns its id. Idempotent per path: a
// path that already has a record returns the existing id without re-processing;
// callers wanting fresh content must remove the stale record first.
func (s *IngestService) Ingest(ctx context.Context, path string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records.Find(path); ok {
		return rec.DocumentID, nil
	}

	log.Printf("ingest: processing %s", path)

	extraction, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return uuid.Nil, err
	}

	documentID := uuid.New()
	provenance := make(map[uuid.UUID]string)
	var units []model.Unit

	for _, text := range extraction.Texts {
		u := model.Unit{
			ID:         uuid.New(),
			DocumentID: documentID,
			Kind:       model.UnitKindText,
			Content:    text,
		}
		units = append(units, u)
		provenance[u.ID] = text
	}

	for _, table := range extraction.Tables {
		u := model.Unit{
			ID:         uuid.New(),
			DocumentID: documentID,
			Kind:       model.UnitKindTable,
			Content:    table,
		}
		units = append(units, u)
		provenance[u.ID] = table
	}

	for _, img := range extraction.Images {
		caption := s.captioner.Caption(ctx, img.Path)
		if caption == "" {
			// captioning failures degrade gracefully: the image is
			// excluded, the rest of the document still indexes
			log.Printf("ingest: no caption for %s, skipping", img.Filename)
			continue
		}
		u := model.Unit{
			ID:         uuid.New(),
			DocumentID: documentID,
			Kind:       model.UnitKindImage,
			Content:    fmt.Sprintf("[Figure %d, Page %d]: %s", img.Figure, img.Page, caption),
			Page:       img.Page,
			Figure:     img.Figure,
			Filename:   img.Filename,
		}
		units = append(units, u)

		original, err := json.Marshal(img)
		if err != nil {
			return uuid.Nil, fmt.Errorf("marshal image record: %w", err)
		}
		provenance[u.ID] = string(original)
	}

	if len(units) > 0 {
		if err := s.index.Add(ctx, units); err != nil {
			return uuid.Nil, fmt.Errorf("index document: %w", err)
		}
		if err := s.provenance.MSet(ctx, provenance); err != nil {
			return uuid.Nil, fmt.Errorf("store provenance: %w", err)
		}
	}

	s.records.Append(model.DocumentRecord{
		Path:       path,
		DocumentID: documentID,
		IngestedAt: time.Now(),
	})

	// at most one eviction per ingestion; if more records exceed the bound
	// they drain one per subsequent call
	if s.records.Len() > s.maxDocs {
		s.evictOldest(ctx)
	}

	if err := s.records.Save(); err != nil {
		return uuid.Nil, fmt.Errorf("persist records: %w", err)
	}

	log.Printf("ingest: completed %s (%d units)", path, len(units))
	return documentID, nil
}

// evictOldest removes the least-recently-ingested document: provenance entries
// first (while unit ids are still listed in the index), then the indexed units,
// then the ledger record. If the index delete fails the record is kept, so the
// document stays over the bound and eviction retries on the next ingestion.
func (s *IngestService) evictOldest(ctx context.Context) {
	oldest, ok := s.records.Oldest()
	if !ok {
		return
	}

	ids, err := s.index.UnitIDs(ctx, oldest.DocumentID)
	if err != nil {
		log.Printf("ingest: list units of %s: %v", oldest.DocumentID, err)
	} else if err := s.provenance.Delete(ctx, ids); err != nil {
		log.Printf("ingest: prune provenance of %s: %v", oldest.DocumentID, err)
	}

	if err := s.index.DeleteByDocument(ctx, oldest.DocumentID); err != nil {
		log.Printf("ingest: evict %s from index: %v", oldest.DocumentID, err)
		return
	}

	s.records.Remove(oldest.DocumentID)
	log.Printf("ingest: evicted %s (%s)", oldest.Path, oldest.DocumentID)
}
