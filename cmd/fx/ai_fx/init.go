package ai_fx

import (
	"log"
	"os"

	"go.uber.org/fx"

	"roamly/pkg/utils"
)

var Module = fx.Provide(provideAIClient)

func provideAIClient() utils.AIClientInterface {
	provider := os.Getenv("AI_PROVIDER")

	apiKey := os.Getenv("GEMINI_API_KEY")
	if provider == "openai" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	client, err := utils.NewAIClient(provider, apiKey)
	if err != nil {
		log.Fatalf("Failed to create AI client: %v", err)
	}
	return client
}
