package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// RenderClient calls the page-render provider, which rasterizes every embedded
// image of a document and names each output file with its page and figure
// ordinals.
type RenderClient struct {
	baseURL    string
	dpi        int
	httpClient *http.Client
}

func NewRenderClient(baseURL string, dpi int) *RenderClient {
	if dpi <= 0 {
		dpi = 300
	}
	return &RenderClient{
		baseURL:    baseURL,
		dpi:        dpi,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

type renderedImage struct {
	Name string `json:"name"`
	Data string `json:"data"` // base64 PNG payload
}

// RenderImages renders the document's images into outDir, one PNG per figure.
func (c *RenderClient) RenderImages(ctx context.Context, path, outDir string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := w.WriteField("format", "png"); err != nil {
		return fmt.Errorf("write format field: %w", err)
	}
	if err := w.WriteField("dpi", fmt.Sprintf("%d", c.dpi)); err != nil {
		return fmt.Errorf("write dpi field: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("render API error (status %d): %s", resp.StatusCode, string(body))
	}

	var images []renderedImage
	if err := json.Unmarshal(body, &images); err != nil {
		return fmt.Errorf("unmarshal rendered images: %w", err)
	}

	for _, img := range images {
		raw, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return fmt.Errorf("decode image %s: %w", img.Name, err)
		}
		name := filepath.Base(img.Name)
		if err := os.WriteFile(filepath.Join(outDir, name), raw, 0644); err != nil {
			return fmt.Errorf("write image %s: %w", name, err)
		}
	}

	return nil
}
