package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// AIClientInterface sends a fully substituted prompt to a language model and
// returns its raw text. Implementations are stateless: every call is a fresh
// context with no chat history carried between prompts.
type AIClientInterface interface {
	SendPrompt(ctx context.Context, prompt string) (string, error)
}

// GenerationConfig is the fixed sampling configuration shared by every call.
// It is wired once at construction, never tuned per call site.
type GenerationConfig struct {
	Temperature     float32
	TopK            int32
	TopP            float32
	MaxOutputTokens int32
}

var DefaultGenerationConfig = GenerationConfig{
	Temperature:     0.7,
	TopK:            40,
	TopP:            0.95,
	MaxOutputTokens: 16384,
}

// DefaultGeminiModels is ordered fastest/cheapest first; each later entry is
// the fallback for the one before it.
var DefaultGeminiModels = []string{
	"gemini-2.5-flash-lite",
	"gemini-2.5-flash",
	"gemini-2.5-pro",
}

// Responses shorter than this are placeholder/degenerate output ("{}", an
// apology, a refusal) and are worth burning a fallback attempt on.
const minUsableResponseLength = 500

type modelReply struct {
	text      string
	truncated bool
}

// GeminiClient implements AIClientInterface with ordered model fallback.
type GeminiClient struct {
	client *genai.Client
	models []string
	config GenerationConfig

	// invoke is the single-model call; swapped out in tests.
	invoke func(ctx context.Context, model, prompt string) (*modelReply, error)
}

func NewGeminiClient(apiKey string, models []string, config GenerationConfig) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if len(models) == 0 {
		models = DefaultGeminiModels
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	c := &GeminiClient{
		client: client,
		models: models,
		config: config,
	}
	c.invoke = c.callGemini
	return c, nil
}

// SendPrompt walks the model list in order and returns the first usable
// response. A model is skipped when the call errors, the response shape is
// unrecognized, or the text is shorter than the degenerate floor. A response
// cut off at the token limit is NOT skipped: the downstream extractor can
// usually repair it. Only when every model has been tried does the call fail,
// carrying the last model's failure reason.
func (c *GeminiClient) SendPrompt(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for _, model := range c.models {
		reply, err := c.invoke(ctx, model, prompt)
		if err != nil {
			log.Printf("model %s failed: %v", model, err)
			lastErr = err
			continue
		}
		if reply.truncated {
			log.Printf("model %s response truncated at token limit, handing to repair", model)
		}
		if len(reply.text) < minUsableResponseLength {
			lastErr = fmt.Errorf("response too short from %s (%d chars)", model, len(reply.text))
			log.Printf("%v, trying next model", lastErr)
			continue
		}
		return reply.text, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no models configured")
	}
	return "", fmt.Errorf("%w: %v", ErrModelExhausted, lastErr)
}

func (c *GeminiClient) callGemini(ctx context.Context, model, prompt string) (*modelReply, error) {
	m := c.client.GenerativeModel(model)
	m.SetTemperature(c.config.Temperature)
	m.SetTopK(c.config.TopK)
	m.SetTopP(c.config.TopP)
	m.SetMaxOutputTokens(c.config.MaxOutputTokens)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", model, err)
	}

	text, ok := extractResponseText(resp)
	if !ok {
		return nil, fmt.Errorf("unrecognized response shape from %s", model)
	}

	return &modelReply{
		text:      text,
		truncated: resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens,
	}, nil
}

// extractResponseText normalizes the response envelope: concatenate the text
// parts of the first candidate, falling back to the part's string rendering
// for non-text parts the SDK may surface.
func extractResponseText(resp *genai.GenerateContentResponse) (string, bool) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", false
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		} else {
			fmt.Fprintf(&b, "%v", part)
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// NewAIClient picks the provider implementation from config.
func NewAIClient(provider, apiKey string) (AIClientInterface, error) {
	switch strings.ToLower(provider) {
	case "", "gemini":
		return NewGeminiClient(apiKey, DefaultGeminiModels, DefaultGenerationConfig)
	case "openai":
		return NewOpenAIClient(apiKey, DefaultOpenAIModels, DefaultGenerationConfig), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
