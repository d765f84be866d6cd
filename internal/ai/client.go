package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/julienlaffont/cvbooster/internal/types"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Generator is an abstraction over text-generation providers.
type Generator interface {
	// GenerateCV produces a full CV body from the wizard payload.
	GenerateCV(ctx context.Context, req *types.GenerateCVRequest) (string, error)
	// GenerateCoverLetter produces a cover letter targeted at a company and position.
	GenerateCoverLetter(ctx context.Context, req *types.GenerateCoverLetterRequest) (string, error)
	// Chat answers one user message within a coaching conversation, given prior turns.
	Chat(ctx context.Context, history []Turn, message string) (string, error)
	// Analyze reviews an existing CV and returns improvement feedback.
	Analyze(ctx context.Context, content string, sector, position *string) (string, error)
}

// Turn is one prior exchange in a conversation, oldest first.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// OpenAIGenerator implements Generator on top of the OpenAI chat API.
type OpenAIGenerator struct {
	model llms.Model
}

// NewOpenAIGenerator creates a generator bound to the given API key and model.
// An empty model name falls back to DefaultModel.
func NewOpenAIGenerator(apiKey, modelName string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	model, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return &OpenAIGenerator{model: model}, nil
}

// GenerateCV produces a full CV body from the wizard payload.
func (g *OpenAIGenerator) GenerateCV(ctx context.Context, req *types.GenerateCVRequest) (string, error) {
	return g.complete(ctx, cvSystemPrompt, buildCVPrompt(req))
}

// GenerateCoverLetter produces a cover letter targeted at a company and position.
func (g *OpenAIGenerator) GenerateCoverLetter(ctx context.Context, req *types.GenerateCoverLetterRequest) (string, error) {
	return g.complete(ctx, coverLetterSystemPrompt, buildCoverLetterPrompt(req))
}

// Chat answers one user message within a coaching conversation.
func (g *OpenAIGenerator) Chat(ctx context.Context, history []Turn, message string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, coachSystemPrompt),
	}
	for _, t := range history {
		role := llms.ChatMessageTypeHuman
		if t.Role == "assistant" {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, t.Content))
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, message))

	resp, err := g.model.GenerateContent(ctx, content)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return firstChoice(resp)
}

// Analyze reviews an existing CV and returns improvement feedback.
func (g *OpenAIGenerator) Analyze(ctx context.Context, content string, sector, position *string) (string, error) {
	return g.complete(ctx, analyzeSystemPrompt, buildAnalyzePrompt(content, sector, position))
}

func (g *OpenAIGenerator) complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return firstChoice(resp)
}

func firstChoice(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
