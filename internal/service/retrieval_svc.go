package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/kaushik-yadav/RAGFlow/internal/store"
)

// RetrievalService answers "which units of this document are closest to this
// question". It only consults committed document records, so a document being
// ingested concurrently is invisible until its record lands.
type RetrievalService struct {
	index   IndexStore
	records *store.RecordStore
}

func NewRetrievalService(index IndexStore, records *store.RecordStore) *RetrievalService {
	return &RetrievalService{index: index, records: records}
}

// Retrieve returns at most k units of the given document ordered by descending
// similarity. A document id that was never ingested, or has already been
// evicted, yields an empty result rather than an error so answer synthesis
// degrades to "no context".
func (s *RetrievalService) Retrieve(ctx context.Context, question string, documentID uuid.UUID, k int) ([]RetrievedUnit, error) {
	if _, ok := s.records.FindByID(documentID); !ok {
		return []RetrievedUnit{}, nil
	}
	return s.index.Search(ctx, question, documentID, k)
}
