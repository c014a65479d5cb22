package utils

import (
	"context"
	"errors"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

var DefaultOpenAIModels = []string{
	openai.GPT4oMini,
	openai.GPT4o,
}

// OpenAIClient is the alternate AIClientInterface provider, with the same
// ordered-fallback semantics as the Gemini client.
type OpenAIClient struct {
	client *openai.Client
	models []string
	config GenerationConfig
}

func NewOpenAIClient(apiKey string, models []string, config GenerationConfig) *OpenAIClient {
	if len(models) == 0 {
		models = DefaultOpenAIModels
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		models: models,
		config: config,
	}
}

func (c *OpenAIClient) SendPrompt(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for _, model := range c.models {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       model,
			Temperature: c.config.Temperature,
			TopP:        c.config.TopP,
			MaxTokens:   int(c.config.MaxOutputTokens),
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			log.Printf("model %s failed: %v", model, err)
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no choices from %s", model)
			continue
		}

		choice := resp.Choices[0]
		if choice.FinishReason == openai.FinishReasonLength {
			log.Printf("model %s response truncated at token limit, handing to repair", model)
		}
		if len(choice.Message.Content) < minUsableResponseLength {
			lastErr = fmt.Errorf("response too short from %s (%d chars)", model, len(choice.Message.Content))
			continue
		}
		return choice.Message.Content, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no models configured")
	}
	return "", fmt.Errorf("%w: %v", ErrModelExhausted, lastErr)
}
