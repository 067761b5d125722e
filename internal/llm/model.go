package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/lberndt/roomscout/internal/config"
)

// Model wraps a langchaingo LLM for text generation.
type Model struct {
	llm        llms.Model
	modelName  string
	maxRetries int
}

// NewModel creates an LLM model based on configuration.
func NewModel(cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.Provider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.ChatModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.ChatModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	return &Model{
		llm:        model,
		modelName:  cfg.ChatModel,
		maxRetries: cfg.MaxRetries,
	}, nil
}

// Generate generates text based on a prompt.
func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	var response string
	err := withRetry(ctx, m.maxRetries, "generate", func() error {
		var err error
		response, err = llms.GenerateFromSinglePrompt(ctx, m.llm, prompt)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
	return response, nil
}

// GenerateWithSystem generates text with a system prompt.
func (m *Model) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	var response string
	err := withRetry(ctx, m.maxRetries, "generate_with_system", func() error {
		resp, err := m.llm.GenerateContent(ctx, messages)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no response choices")
		}
		response = resp.Choices[0].Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
	return response, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}
