package extract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaushik-yadav/RAGFlow/internal/model"
)

// ErrExtraction marks a whole-document parse failure. Ingestion of that
// document aborts with nothing committed.
var ErrExtraction = errors.New("extraction failed")

// Extraction is the raw structured content of one document.
type Extraction struct {
	Texts  []string
	Tables []string
	Images []model.ImageRecord
}

// Partitioner splits a document into typed content blocks.
type Partitioner interface {
	Partition(ctx context.Context, path string) ([]Element, error)
}

// Renderer writes the document's embedded images as PNG files into outDir.
type Renderer interface {
	RenderImages(ctx context.Context, path, outDir string) error
}

// Extractor turns a source file into text blocks, tables and image records.
type Extractor struct {
	partitioner Partitioner
	renderer    Renderer
	figuresDir  string
}

func NewExtractor(partitioner Partitioner, renderer Renderer, figuresDir string) *Extractor {
	return &Extractor{partitioner: partitioner, renderer: renderer, figuresDir: figuresDir}
}

func (e *Extractor) Extract(ctx context.Context, path string) (*Extraction, error) {
	elements, err := e.partitioner.Partition(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: partition %s: %v", ErrExtraction, filepath.Base(path), err)
	}

	extraction := &Extraction{}
	for _, el := range elements {
		switch el.Type {
		case ElementComposite:
			extraction.Texts = append(extraction.Texts, el.Text)
		case ElementTable:
			// keep the HTML rendering when available, tabular structure
			// helps downstream answer synthesis
			if el.Metadata.TextAsHTML != "" {
				extraction.Tables = append(extraction.Tables, el.Metadata.TextAsHTML)
			} else {
				extraction.Tables = append(extraction.Tables, el.Text)
			}
		}
	}

	images, err := e.extractImages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: render %s: %v", ErrExtraction, filepath.Base(path), err)
	}
	extraction.Images = images

	return extraction, nil
}

// extractImages renders every embedded image into a per-document directory and
// derives page/figure coordinates from the render provider's naming scheme.
// The directory is cleared first so re-runs never see stale figures.
func (e *Extractor) extractImages(ctx context.Context, path string) ([]model.ImageRecord, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outDir := filepath.Join(e.figuresDir, stem)

	if err := os.RemoveAll(outDir); err != nil {
		return nil, fmt.Errorf("clear %s: %w", outDir, err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", outDir, err)
	}

	if err := e.renderer.RenderImages(ctx, path, outDir); err != nil {
		return nil, err
	}

	// ReadDir sorts by name, which matches the provider's page-figure ordering
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", outDir, err)
	}

	var records []model.ImageRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".png") {
			continue
		}
		page, figure, err := ParseCoordinates(name)
		if err != nil {
			log.Printf("extract: skipping image %s: %v", name, err)
			continue
		}
		records = append(records, model.ImageRecord{
			Path:     filepath.Join(outDir, name),
			Page:     page,
			Figure:   figure,
			Filename: name,
		})
	}

	return records, nil
}
