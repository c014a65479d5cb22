package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func stubGeminiClient(invoke func(ctx context.Context, model, prompt string) (*modelReply, error)) *GeminiClient {
	return &GeminiClient{
		models: DefaultGeminiModels,
		config: DefaultGenerationConfig,
		invoke: invoke,
	}
}

func usableText() string {
	return strings.Repeat(`{"key": "value"} `, 40)
}

func TestSendPromptFirstModelWins(t *testing.T) {
	var calls []string
	c := stubGeminiClient(func(_ context.Context, model, _ string) (*modelReply, error) {
		calls = append(calls, model)
		return &modelReply{text: usableText()}, nil
	})

	out, err := c.SendPrompt(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("send returned error: %v", err)
	}
	if out != usableText() {
		t.Fatalf("unexpected response text")
	}
	if len(calls) != 1 || calls[0] != DefaultGeminiModels[0] {
		t.Fatalf("expected a single call to %s, got %v", DefaultGeminiModels[0], calls)
	}
}

func TestSendPromptFallsBackInOrder(t *testing.T) {
	var calls []string
	c := stubGeminiClient(func(_ context.Context, model, _ string) (*modelReply, error) {
		calls = append(calls, model)
		if model != DefaultGeminiModels[2] {
			return nil, fmt.Errorf("model %s overloaded", model)
		}
		return &modelReply{text: usableText()}, nil
	})

	if _, err := c.SendPrompt(context.Background(), "prompt"); err != nil {
		t.Fatalf("send returned error: %v", err)
	}
	want := []string{DefaultGeminiModels[0], DefaultGeminiModels[1], DefaultGeminiModels[2]}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d: expected %s, got %s", i, want[i], calls[i])
		}
	}
}

func TestSendPromptExhaustsAllModels(t *testing.T) {
	calls := 0
	c := stubGeminiClient(func(_ context.Context, _, _ string) (*modelReply, error) {
		calls++
		return nil, errors.New("overloaded")
	})

	_, err := c.SendPrompt(context.Background(), "prompt")
	if err == nil {
		t.Fatalf("expected error after all models failed")
	}
	if !errors.Is(err, ErrModelExhausted) {
		t.Fatalf("expected ErrModelExhausted, got %v", err)
	}
	if calls != len(DefaultGeminiModels) {
		t.Fatalf("expected exactly %d attempts, got %d", len(DefaultGeminiModels), calls)
	}
}

func TestSendPromptSkipsDegenerateResponse(t *testing.T) {
	var calls []string
	c := stubGeminiClient(func(_ context.Context, model, _ string) (*modelReply, error) {
		calls = append(calls, model)
		if len(calls) == 1 {
			return &modelReply{text: "{}"}, nil
		}
		return &modelReply{text: usableText()}, nil
	})

	if _, err := c.SendPrompt(context.Background(), "prompt"); err != nil {
		t.Fatalf("send returned error: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected short response to trigger fallback, got calls %v", calls)
	}
}

func TestSendPromptAcceptsTruncatedResponse(t *testing.T) {
	c := stubGeminiClient(func(_ context.Context, _, _ string) (*modelReply, error) {
		return &modelReply{text: usableText(), truncated: true}, nil
	})

	out, err := c.SendPrompt(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("truncated response should be accepted, got error: %v", err)
	}
	if out == "" {
		t.Fatalf("expected truncated text to be returned")
	}
}

func TestCategorizeModelError(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{errors.New("googleapi: Error 429: quota exceeded"), ErrQuotaExceeded},
		{errors.New("API key not valid"), ErrInvalidAPIKey},
		{errors.New("model gemini-x not found: 404"), ErrModelUnavailable},
	}
	for _, tc := range cases {
		got := CategorizeModelError(tc.in)
		if !errors.Is(got, tc.want) {
			t.Fatalf("categorize(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}

	plain := errors.New("connection reset by peer")
	if got := CategorizeModelError(plain); !errors.Is(got, plain) {
		t.Fatalf("uncategorized error should pass through, got %v", got)
	}
}
