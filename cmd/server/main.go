package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/kaushik-yadav/RAGFlow/internal/captioner"
	"github.com/kaushik-yadav/RAGFlow/internal/config"
	"github.com/kaushik-yadav/RAGFlow/internal/database"
	"github.com/kaushik-yadav/RAGFlow/internal/extract"
	"github.com/kaushik-yadav/RAGFlow/internal/handler"
	"github.com/kaushik-yadav/RAGFlow/internal/repository"
	"github.com/kaushik-yadav/RAGFlow/internal/service"
	"github.com/kaushik-yadav/RAGFlow/internal/store"
	"github.com/kaushik-yadav/RAGFlow/internal/transcribe"
)

func main() {
	// Load .env file if exists
	godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Stores
	records := store.NewRecordStore(cfg.RecordFile)
	provenance, err := store.NewProvenanceStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer provenance.Close()

	// Vector index
	embedder := service.NewEmbedder(cfg.EmbeddingAPIKey, cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	index := service.NewIndexService(db, repository.NewUnitRepository(db), embedder)

	// Extraction + captioning
	extractor := extract.NewExtractor(
		extract.NewPartitionClient(cfg.PartitionBaseURL, cfg.PartitionAPIKey),
		extract.NewRenderClient(cfg.RenderBaseURL, cfg.RenderDPI),
		cfg.FiguresDir,
	)
	captions, err := captioner.New(ctx, &captioner.Config{
		APIKey:  cfg.CaptionAPIKey,
		BaseURL: cfg.CaptionBaseURL,
		Model:   cfg.CaptionModel,
	})
	if err != nil {
		log.Fatalf("Failed to create captioner: %v", err)
	}

	// Core services
	ingest := service.NewIngestService(extractor, captions, index, provenance, records, cfg.MaxDocuments)
	retrieval := service.NewRetrievalService(index, records)
	answers, err := service.NewAnswerService(ctx, &service.LLMConfig{
		APIKey:  cfg.AnswerAPIKey,
		BaseURL: cfg.AnswerBaseURL,
		Model:   cfg.AnswerModel,
	})
	if err != nil {
		log.Fatalf("Failed to create answer service: %v", err)
	}

	transcriber := transcribe.New(&transcribe.Config{
		URL:        cfg.TranscribeURL,
		APIKey:     cfg.TranscribeAPIKey,
		SampleRate: cfg.TranscribeSampleRate,
	})

	r := handler.SetupRouter(cfg, &handler.Deps{
		Records:     records,
		Ingest:      ingest,
		Retrieval:   retrieval,
		Answers:     answers,
		Transcriber: transcriber,
		Provenance:  provenance,
	})

	addr := cfg.Host + ":" + cfg.Port
	log.Printf("RAGFlow starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
