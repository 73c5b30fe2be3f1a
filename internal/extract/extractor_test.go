package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePartitioner struct {
	elements []Element
	err      error
}

func (f *fakePartitioner) Partition(ctx context.Context, path string) ([]Element, error) {
	return f.elements, f.err
}

type fakeRenderer struct {
	files map[string][]byte
	err   error
}

func (f *fakeRenderer) RenderImages(ctx context.Context, path, outDir string) error {
	if f.err != nil {
		return f.err
	}
	for name, data := range f.files {
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0644); err != nil {
			return err
		}
	}
	return nil
}

func tableElement(html, text string) Element {
	el := Element{Type: ElementTable, Text: text}
	el.Metadata.TextAsHTML = html
	return el
}

func TestExtractSplitsTextsAndTables(t *testing.T) {
	partitioner := &fakePartitioner{elements: []Element{
		{Type: ElementComposite, Text: "first chunk"},
		tableElement("<table><tr><td>x</td></tr></table>", "x"),
		{Type: ElementComposite, Text: "second chunk"},
		tableElement("", "plain table"),
		{Type: "Header", Text: "ignored"},
	}}
	e := NewExtractor(partitioner, &fakeRenderer{}, t.TempDir())

	extraction, err := e.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)

	assert.Equal(t, []string{"first chunk", "second chunk"}, extraction.Texts)
	// HTML representation wins; text is the fallback
	assert.Equal(t, []string{"<table><tr><td>x</td></tr></table>", "plain table"}, extraction.Tables)
	assert.Empty(t, extraction.Images)
}

func TestExtractImagesParsesCoordinates(t *testing.T) {
	renderer := &fakeRenderer{files: map[string][]byte{
		"doc.pdf-0-0.png": []byte("png0"),
		"doc.pdf-0-1.png": []byte("png1"),
		"doc.pdf-1-0.png": []byte("png2"),
	}}
	e := NewExtractor(&fakePartitioner{}, renderer, t.TempDir())

	extraction, err := e.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)
	require.Len(t, extraction.Images, 3)

	assert.Equal(t, 1, extraction.Images[0].Page)
	assert.Equal(t, 1, extraction.Images[0].Figure)
	assert.Equal(t, 1, extraction.Images[1].Page)
	assert.Equal(t, 2, extraction.Images[1].Figure)
	assert.Equal(t, 2, extraction.Images[2].Page)
	assert.Equal(t, 1, extraction.Images[2].Figure)
	assert.Equal(t, "doc.pdf-0-0.png", extraction.Images[0].Filename)
	assert.FileExists(t, extraction.Images[0].Path)
}

func TestExtractSkipsUnparsableImageFilenames(t *testing.T) {
	renderer := &fakeRenderer{files: map[string][]byte{
		"doc.pdf-0-0.png": []byte("good"),
		"cover.png":       []byte("bad name"),
		"notes.txt":       []byte("not an image"),
	}}
	e := NewExtractor(&fakePartitioner{}, renderer, t.TempDir())

	extraction, err := e.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)

	require.Len(t, extraction.Images, 1)
	assert.Equal(t, "doc.pdf-0-0.png", extraction.Images[0].Filename)
}

func TestExtractClearsPriorOutput(t *testing.T) {
	figuresDir := t.TempDir()
	outDir := filepath.Join(figuresDir, "doc")
	require.NoError(t, os.MkdirAll(outDir, 0755))
	stale := filepath.Join(outDir, "doc.pdf-9-9.png")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0644))

	renderer := &fakeRenderer{files: map[string][]byte{"doc.pdf-0-0.png": []byte("fresh")}}
	e := NewExtractor(&fakePartitioner{}, renderer, figuresDir)

	extraction, err := e.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)

	require.Len(t, extraction.Images, 1)
	assert.NoFileExists(t, stale)
}

func TestExtractPartitionFailureIsExtractionError(t *testing.T) {
	e := NewExtractor(&fakePartitioner{err: errors.New("parser crashed")}, &fakeRenderer{}, t.TempDir())

	_, err := e.Extract(context.Background(), "doc.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExtractRenderFailureIsExtractionError(t *testing.T) {
	e := NewExtractor(&fakePartitioner{}, &fakeRenderer{err: errors.New("render crashed")}, t.TempDir())

	_, err := e.Extract(context.Background(), "doc.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
}
