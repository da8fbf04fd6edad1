package factory

import (
	"testing"

	"traffic-assistant-be/pkg/llm/gemini"
	"traffic-assistant-be/pkg/llm/ollama"
	"traffic-assistant-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(Settings{Provider: "gemini", GeminiAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &gemini.GeminiProvider{}, p)

	p, err = NewLLMProvider(Settings{Provider: "Ollama"})
	require.NoError(t, err)
	assert.IsType(t, &ollama.OllamaProvider{}, p)

	p, err = NewLLMProvider(Settings{Provider: "openai", OpenAIAPIKey: "sk"})
	require.NoError(t, err)
	assert.IsType(t, &openai.OpenAIProvider{}, p)
}

func TestNewLLMProviderRejectsBadSettings(t *testing.T) {
	_, err := NewLLMProvider(Settings{Provider: "gemini"})
	assert.Error(t, err)

	_, err = NewLLMProvider(Settings{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewLLMProvider(Settings{Provider: "huggingface"})
	assert.Error(t, err)
}
