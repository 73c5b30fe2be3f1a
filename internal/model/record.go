package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentRecord is one entry in the ledger of currently indexed documents.
// Records are created on first successful ingestion of a path, never mutated,
// and removed only by eviction.
type DocumentRecord struct {
	Path       string    `json:"path"`
	DocumentID uuid.UUID `json:"document_id"`
	IngestedAt time.Time `json:"ingested_at"`
}
