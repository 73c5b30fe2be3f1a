package extract

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0644))
	return path
}

func TestPartitionClientSendsChunkingOptions(t *testing.T) {
	var gotFields map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		_, _, err := r.FormFile("files")
		require.NoError(t, err)
		assert.Equal(t, "test-key", r.Header.Get("unstructured-api-key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"type": "CompositeElement", "text": "chunk one"},
			{"type": "Table", "text": "a b", "metadata": {"text_as_html": "<table/>"}}
		]`))
	}))
	defer srv.Close()

	client := NewPartitionClient(srv.URL, "test-key")
	elements, err := client.Partition(context.Background(), writeTempDoc(t))
	require.NoError(t, err)

	assert.Equal(t, "by_title", gotFields["chunking_strategy"])
	assert.Equal(t, "10000", gotFields["max_characters"])
	assert.Equal(t, "2000", gotFields["combine_under_n_chars"])
	assert.Equal(t, "6000", gotFields["new_after_n_chars"])
	assert.Equal(t, "true", gotFields["infer_table_structure"])

	require.Len(t, elements, 2)
	assert.Equal(t, ElementComposite, elements[0].Type)
	assert.Equal(t, "chunk one", elements[0].Text)
	assert.Equal(t, "<table/>", elements[1].Metadata.TextAsHTML)
}

func TestPartitionClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cannot parse document", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewPartitionClient(srv.URL, "")
	_, err := client.Partition(context.Background(), writeTempDoc(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestRenderClientWritesImages(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png bytes"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "png", r.FormValue("format"))
		assert.Equal(t, "300", r.FormValue("dpi"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"name": "doc.pdf-0-0.png", "data": "` + payload + `"}]`))
	}))
	defer srv.Close()

	outDir := t.TempDir()
	client := NewRenderClient(srv.URL, 300)
	require.NoError(t, client.RenderImages(context.Background(), writeTempDoc(t), outDir))

	data, err := os.ReadFile(filepath.Join(outDir, "doc.pdf-0-0.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), data)
}
