package handler

import (
	"sync"

	"github.com/google/uuid"
)

// Session tracks the active document for the question flow. It belongs to the
// transport layer: the ingestion core knows nothing about "current" documents.
type Session struct {
	mu         sync.RWMutex
	path       string
	documentID uuid.UUID
	active     bool
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Set(path string, documentID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
	s.documentID = documentID
	s.active = true
}

// Active returns the current document, if one has been uploaded.
func (s *Session) Active() (string, uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path, s.documentID, s.active
}
