package llm

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// NewGroqProvider creates a provider for Groq-hosted models.
func NewGroqProvider(apiKey string, model string) *OpenAIProvider {
	return NewCompatibleProvider("groq", GroqBaseURL, apiKey, model)
}
