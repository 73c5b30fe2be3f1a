package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Chunking thresholds for title-based partitioning. Chunks are capped at
// maxCharacters, runs shorter than combineUnderChars are merged with their
// neighbours, and a new chunk starts once newAfterChars is exceeded.
const (
	maxCharacters     = 10000
	combineUnderChars = 2000
	newAfterChars     = 6000
)

// Element is one typed block returned by the partition provider.
type Element struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Metadata struct {
		TextAsHTML string `json:"text_as_html"`
		PageNumber int    `json:"page_number"`
	} `json:"metadata"`
}

const (
	ElementComposite = "CompositeElement"
	ElementTable     = "Table"
)

// PartitionClient calls an unstructured-compatible partition API to split a
// document into typed content blocks.
type PartitionClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewPartitionClient(baseURL, apiKey string) *PartitionClient {
	return &PartitionClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Partition uploads the file and returns the ordered element list.
func (c *PartitionClient) Partition(ctx context.Context, path string) ([]Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}

	fields := map[string]string{
		"strategy":              "fast",
		"chunking_strategy":     "by_title",
		"max_characters":        fmt.Sprintf("%d", maxCharacters),
		"combine_under_n_chars": fmt.Sprintf("%d", combineUnderChars),
		"new_after_n_chars":     fmt.Sprintf("%d", newAfterChars),
		"infer_table_structure": "true",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/general/v0/general", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("unstructured-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("partition request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("partition API error (status %d): %s", resp.StatusCode, string(body))
	}

	var elements []Element
	if err := json.Unmarshal(body, &elements); err != nil {
		return nil, fmt.Errorf("unmarshal elements: %w", err)
	}

	return elements, nil
}
