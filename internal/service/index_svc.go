package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kaushik-yadav/RAGFlow/internal/model"
	"github.com/kaushik-yadav/RAGFlow/internal/repository"
)

// RetrievedUnit is one similarity search hit.
type RetrievedUnit struct {
	Unit       model.Unit `json:"unit"`
	Similarity float64    `json:"similarity"`
}

// IndexService is the vector index over retrievable units: embed on write,
// cosine-distance search on read, always scoped to a single document.
type IndexService struct {
	db       *gorm.DB
	units    *repository.UnitRepository
	embedder *Embedder
}

func NewIndexService(db *gorm.DB, units *repository.UnitRepository, embedder *Embedder) *IndexService {
	return &IndexService{db: db, units: units, embedder: embedder}
}

// Add embeds each unit's searchable content and stores the batch.
func (s *IndexService) Add(ctx context.Context, units []model.Unit) error {
	if len(units) == 0 {
		return nil
	}

	contents := make([]string, len(units))
	for i, u := range units {
		contents[i] = u.Content
	}

	embeddings, err := s.embedder.Embed(ctx, contents)
	if err != nil {
		return fmt.Errorf("generate embeddings: %w", err)
	}
	for i := range units {
		units[i].Embedding = embeddings[i]
	}

	if err := s.units.CreateBatch(ctx, units); err != nil {
		return fmt.Errorf("store units: %w", err)
	}
	return nil
}

// Search returns the k nearest units of the given document, best first. The
// document filter is part of the SQL predicate, not post-filtering: units of
// other documents can never leak into the result. An unknown document id
// simply matches nothing.
func (s *IndexService) Search(ctx context.Context, query string, documentID uuid.UUID, k int) ([]RetrievedUnit, error) {
	if k <= 0 {
		k = 3
	}

	queryEmbedding, err := s.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("generate query embedding: %w", err)
	}

	var rows []struct {
		model.Unit
		Distance float64 `gorm:"column:distance"`
	}

	err = s.db.WithContext(ctx).
		Table("rag_units").
		Select("*, embedding <=> ? AS distance", queryEmbedding).
		Where("document_id = ?", documentID).
		Order("distance ASC").
		Limit(k).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}

	results := make([]RetrievedUnit, 0, len(rows))
	for _, r := range rows {
		results = append(results, RetrievedUnit{
			Unit:       r.Unit,
			Similarity: 1 - r.Distance, // cosine distance to similarity
		})
	}
	return results, nil
}

// UnitIDs lists the ids of every unit indexed under a document.
func (s *IndexService) UnitIDs(ctx context.Context, documentID uuid.UUID) ([]uuid.UUID, error) {
	return s.units.ListIDsByDocument(ctx, documentID)
}

// DeleteByDocument removes every unit of a document from the index.
func (s *IndexService) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	return s.units.DeleteByDocument(ctx, documentID)
}
