package factory

import (
	"fmt"

	"phone-store-be/pkg/llm"
	"phone-store-be/pkg/llm/huggingface"
	"phone-store-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured provider. "none" disables generation and
// returns a nil provider.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
