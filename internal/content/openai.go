package content

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"study-quiz-service/internal/domain"
	"study-quiz-service/internal/platform/logger"
)

// OpenAIProvider generates summaries and quizzes with a chat completion model.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	log         *logger.Logger
}

type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

func NewOpenAIProvider(opts OpenAIOptions, log *logger.Logger) *OpenAIProvider {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: opts.Temperature,
		log:         log.With("component", "openai", "model", opts.Model),
	}
}

func (p *OpenAIProvider) Model() string {
	return p.model
}

func (p *OpenAIProvider) GenerateSummary(ctx context.Context, material string) (string, error) {
	return p.complete(ctx, "summary", summaryPrompt(material))
}

func (p *OpenAIProvider) GenerateQuiz(ctx context.Context, material string, count int) (string, error) {
	return p.complete(ctx, "quiz", quizPrompt(material, count))
}

func (p *OpenAIProvider) complete(ctx context.Context, kind, prompt string) (string, error) {
	p.log.Debug("requesting completion", "kind", kind, "prompt_chars", len(prompt))

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrGeneration, kind, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s: empty response", domain.ErrGeneration, kind)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
