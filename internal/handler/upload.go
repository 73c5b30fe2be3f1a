package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/kaushik-yadav/RAGFlow/internal/service"
	"github.com/kaushik-yadav/RAGFlow/internal/store"
)

type UploadHandler struct {
	ingest    *service.IngestService
	records   *store.RecordStore
	session   *Session
	uploadDir string
}

func NewUploadHandler(ingest *service.IngestService, records *store.RecordStore, session *Session, uploadDir string) *UploadHandler {
	return &UploadHandler{ingest: ingest, records: records, session: session, uploadDir: uploadDir}
}

// Upload saves the document, runs the ingestion pipeline, and marks the
// document as the session's active one. Re-uploading a known path is a no-op
// for the index.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	path := filepath.Join(h.uploadDir, filepath.Base(header.Filename))
	dst, err := os.Create(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	dst.Close()

	_, known := h.records.Find(path)

	documentID, err := h.ingest.Ingest(c.Request.Context(), path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.session.Set(path, documentID)

	message := "Document uploaded and processed successfully."
	if known {
		message = "Document already processed."
	}
	c.JSON(http.StatusOK, gin.H{
		"filename":    header.Filename,
		"message":     message,
		"can_use_mic": true,
	})
}
