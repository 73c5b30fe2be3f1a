package captioner

import (
	"context"
	"encoding/base64"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// The prompt asks for component relationships and control flow explicitly:
// retrieval quality for diagrams depends on captions naming connections,
// not just objects.
const captionPrompt = "Describe the image in detail along with its components under 150 words. " +
	"Also mention the connection of components like which component is connected to which. " +
	"Provide the control flow."

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Captioner describes images through a vision-capable chat model.
type Captioner struct {
	model model.ToolCallingChatModel
}

func New(ctx context.Context, cfg *Config) (*Captioner, error) {
	temperature := float32(0.1)
	maxTokens := 1000

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, err
	}

	return &Captioner{model: cm}, nil
}

// Caption returns a natural-language description of the image, assembled from
// the model's token stream. It never fails past this boundary: any error is
// logged and an empty string returned, which callers treat as "no caption
// available" and skip the image.
func (c *Captioner) Caption(ctx context.Context, imagePath string) string {
	raw, err := os.ReadFile(imagePath)
	if err != nil {
		log.Printf("captioner: read %s: %v", imagePath, err)
		return ""
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	msg := &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{
				Type: schema.ChatMessagePartTypeText,
				Text: captionPrompt,
			},
			{
				Type:     schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{URL: dataURL},
			},
		},
	}

	sr, err := c.model.Stream(ctx, []*schema.Message{msg})
	if err != nil {
		log.Printf("captioner: stream %s: %v", imagePath, err)
		return ""
	}
	defer sr.Close()

	var b strings.Builder
	for {
		chunk, err := sr.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("captioner: recv %s: %v", imagePath, err)
			return ""
		}
		b.WriteString(chunk.Content)
	}

	return strings.TrimSpace(b.String())
}
