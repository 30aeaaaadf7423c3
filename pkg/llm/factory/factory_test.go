package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phone-store-be/pkg/llm/huggingface"
	"phone-store-be/pkg/llm/ollama"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider("ollama", "qwen2.5", "", "")
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	p, err = NewLLMProvider("huggingface", "m", "", "key")
	require.NoError(t, err)
	assert.IsType(t, &huggingface.HuggingFaceProvider{}, p)

	p, err = NewLLMProvider("none", "", "", "")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = NewLLMProvider("gpt-local", "", "", "")
	assert.Error(t, err)
}
