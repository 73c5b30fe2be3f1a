package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaushik-yadav/RAGFlow/internal/extract"
)

func TestRetrieveIsScopedToOneDocument(t *testing.T) {
	extractor := &fakeExtractor{extractions: map[string]*extract.Extraction{
		"a.pdf": {Texts: []string{"alpha one", "alpha two"}},
		"b.pdf": {Texts: []string{"beta one"}},
	}}
	p := newPipeline(t, 5, extractor, nil)
	retrieval := NewRetrievalService(p.index, p.records)
	ctx := context.Background()

	idA, err := p.svc.Ingest(ctx, "a.pdf")
	require.NoError(t, err)
	idB, err := p.svc.Ingest(ctx, "b.pdf")
	require.NoError(t, err)

	units, err := retrieval.Retrieve(ctx, "anything", idA, 10)
	require.NoError(t, err)
	require.Len(t, units, 2)
	for _, u := range units {
		assert.Equal(t, idA, u.Unit.DocumentID, "no unit of another document may leak")
	}

	units, err = retrieval.Retrieve(ctx, "anything", idB, 10)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, idB, units[0].Unit.DocumentID)
}

func TestRetrieveUnknownDocumentIsEmpty(t *testing.T) {
	p := newPipeline(t, 5, &fakeExtractor{}, nil)
	retrieval := NewRetrievalService(p.index, p.records)

	units, err := retrieval.Retrieve(context.Background(), "anything", uuid.New(), 3)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestRetrieveEvictedDocumentIsEmpty(t *testing.T) {
	p := newPipeline(t, 1, &fakeExtractor{}, nil)
	retrieval := NewRetrievalService(p.index, p.records)
	ctx := context.Background()

	firstID, err := p.svc.Ingest(ctx, "a.pdf")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = p.svc.Ingest(ctx, "b.pdf")
	require.NoError(t, err)

	// a.pdf was evicted; no orphaned unit may be retrievable
	units, err := retrieval.Retrieve(ctx, "anything", firstID, 3)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestRetrieveHonorsK(t *testing.T) {
	extractor := &fakeExtractor{extractions: map[string]*extract.Extraction{
		"a.pdf": {Texts: []string{"one", "two", "three", "four"}},
	}}
	p := newPipeline(t, 5, extractor, nil)
	retrieval := NewRetrievalService(p.index, p.records)
	ctx := context.Background()

	id, err := p.svc.Ingest(ctx, "a.pdf")
	require.NoError(t, err)

	units, err := retrieval.Retrieve(ctx, "anything", id, 2)
	require.NoError(t, err)
	assert.Len(t, units, 2)
}
