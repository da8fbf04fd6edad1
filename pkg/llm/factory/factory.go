package factory

import (
	"fmt"
	"strings"
	"time"

	"traffic-assistant-be/pkg/llm"
	"traffic-assistant-be/pkg/llm/gemini"
	"traffic-assistant-be/pkg/llm/ollama"
	"traffic-assistant-be/pkg/llm/openai"
)

type Settings struct {
	Provider      string
	Model         string
	Timeout       time.Duration
	OllamaBaseURL string
	GeminiAPIKey  string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	switch strings.ToLower(s.Provider) {
	case "gemini":
		if s.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_GEMINI_API_KEY")
		}
		return gemini.NewGeminiProvider(s.GeminiBaseURL, s.GeminiAPIKey, s.Model, timeout), nil
	case "ollama":
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, s.Model, timeout), nil
	case "openai":
		if s.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY")
		}
		return openai.NewOpenAIProvider(s.OpenAIAPIKey, s.OpenAIBaseURL, s.Model, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
