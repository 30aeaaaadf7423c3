package response

import (
	"context"
	"log"
	"time"

	"phone-store-be/pkg/llm"
	"phone-store-be/pkg/rag/prompt"
)

// Generator phrases the reply with a language model. The composed draft is the answer
// whenever the model is disabled, slow or failing.
type Generator struct {
	llmProvider llm.LLMProvider
	timeout     time.Duration
	logger      *log.Logger
}

// NewGenerator creates a new response generator. llmProvider may be nil.
func NewGenerator(llmProvider llm.LLMProvider, timeout time.Duration, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		timeout:     timeout,
		logger:      logger,
	}
}

// Generate returns the reply text and whether the model produced it
func (g *Generator) Generate(ctx context.Context, input prompt.Input) (string, bool) {
	if g == nil || g.llmProvider == nil {
		return input.Draft, false
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.llmProvider.Generate(ctx, prompt.NewSalesBuilder(input).Build(), llm.WithTemperature(0.3))
	if err != nil {
		g.logger.Printf("[GENERATION] falling back to composed reply: %v", err)
		return input.Draft, false
	}
	g.logger.Printf("[GENERATION] reply generated from %d products", len(input.Products))
	return text, true
}
