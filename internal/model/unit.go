package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type UnitKind string

const (
	UnitKindText  UnitKind = "text"
	UnitKindTable UnitKind = "table"
	UnitKindImage UnitKind = "image"
)

// Unit is the atomic retrievable thing: one embedded chunk of text, one table,
// or one captioned figure. Every unit belongs to exactly one ingested document
// and is removed together with it on eviction.
type Unit struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"document_id"`
	Kind       UnitKind        `gorm:"size:20;not null" json:"kind"`
	Content    string          `gorm:"type:text;not null" json:"content"`
	Page       int             `gorm:"default:0" json:"page,omitempty"`
	Figure     int             `gorm:"default:0" json:"figure,omitempty"`
	Filename   string          `gorm:"size:500" json:"filename,omitempty"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Unit) TableName() string {
	return "rag_units"
}
