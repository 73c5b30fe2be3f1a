package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const answerSystemPrompt = "You are an assistant helping with document analysis. " +
	"Use the context provided to answer the user question accurately and concisely, " +
	"based only on the context."

// LLMConfig configures one OpenAI-compatible chat model endpoint.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// AnswerService synthesizes a final answer from the question and retrieved
// context chunks.
type AnswerService struct {
	model model.ToolCallingChatModel
}

func NewAnswerService(ctx context.Context, cfg *LLMConfig) (*AnswerService, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, err
	}
	return &AnswerService{model: cm}, nil
}

// Answer never fails past this boundary: a model error comes back as an
// error-describing answer string, not an error value.
func (s *AnswerService) Answer(ctx context.Context, question string, contexts []string) string {
	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", strings.Join(contexts, "\n\n"), question)

	msg, err := s.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(answerSystemPrompt),
		schema.UserMessage(prompt),
	})
	if err != nil {
		log.Printf("answer: generate: %v", err)
		return fmt.Sprintf("Answer generation failed: %v", err)
	}
	return strings.TrimSpace(msg.Content)
}
