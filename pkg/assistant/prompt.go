package assistant

import (
	"strings"

	"traffic-assistant-be/pkg/llm"
)

const historyWindow = 10

const systemPrompt = `You are an expert AI assistant specializing in Indian traffic laws and regulations.

Your primary focus areas include:
- Motor Vehicles Act, 1988 and its amendments
- Traffic rules and regulations in India
- Traffic fines and penalties
- Driving license procedures and requirements
- Vehicle registration processes
- Road safety guidelines
- State-specific traffic regulations

Guidelines for responses:
1. Provide accurate information based on official Indian traffic laws
2. If you're unsure about specific state variations, mention that traffic rules can vary by state
3. Always prioritize safety and legal compliance
4. Use simple, clear language that's easy to understand
5. If asked about non-traffic related topics, politely redirect to traffic law questions

Be helpful, accurate, and focused on Indian traffic law context.`

// formatHistory renders at most the last historyWindow turns as "User:"/"Assistant:" lines.
func formatHistory(history []llm.Message) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	var b strings.Builder
	b.WriteString("\n\nPrevious conversation context:\n")
	for _, msg := range history {
		speaker := "User"
		if msg.Role == llm.RoleAssistant {
			speaker = "Assistant"
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func buildPrompt(message string, history []llm.Message) string {
	return systemPrompt + formatHistory(history) + "\n\nUser Question: " + message + "\n\nAssistant:"
}
