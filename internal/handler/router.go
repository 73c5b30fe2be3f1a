package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaushik-yadav/RAGFlow/internal/config"
	"github.com/kaushik-yadav/RAGFlow/internal/service"
	"github.com/kaushik-yadav/RAGFlow/internal/store"
	"github.com/kaushik-yadav/RAGFlow/internal/transcribe"
)

// Deps carries the constructed services into the router; external clients
// (chat models, redis, postgres) are wired in main.
type Deps struct {
	Records     *store.RecordStore
	Ingest      *service.IngestService
	Retrieval   *service.RetrievalService
	Answers     *service.AnswerService
	Transcriber *transcribe.Transcriber
	Provenance  *store.ProvenanceStore
}

func SetupRouter(cfg *config.Config, deps *Deps) *gin.Engine {
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.MaxMultipartMemory = cfg.MaxUploadSize

	// Health check endpoints
	r.GET("/health", healthCheck)

	// Root endpoint
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":      "RAGFlow",
			"version":      "1.0.0",
			"status":       "running",
			"health_check": "/health",
		})
	})

	session := NewSession()
	uploadHandler := NewUploadHandler(deps.Ingest, deps.Records, session, cfg.UploadDir)
	askHandler := NewAskHandler(session, deps.Transcriber, deps.Retrieval, deps.Answers,
		cfg.TranscribeSampleRate, cfg.TranscribeTimeout, cfg.RetrieveTopK)

	r.POST("/upload", uploadHandler.Upload)
	r.POST("/transcribe", askHandler.Transcribe)
	r.POST("/ask", askHandler.Ask)

	r.GET("/records", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": deps.Records.All()})
	})

	// original (unsummarized) content behind an indexed unit
	r.GET("/units/:id/source", func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
			return
		}
		contents, err := deps.Provenance.Get(c.Request.Context(), []uuid.UUID{id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(contents) == 0 || contents[0] == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "source": contents[0]})
	})

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ragflow",
	})
}
