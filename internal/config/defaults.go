package config

// defaultModels maps each chat provider to the model used when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderGroq:      "llama-3.3-70b-versatile",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-haiku-4-5-20251001",
	ProviderOllama:    "llama3",
}

// defaultEmbeddingModels maps each embedding provider to its default model.
var defaultEmbeddingModels = map[ProviderType]string{
	ProviderOpenAI: "text-embedding-3-small",
	ProviderOllama: "nomic-embed-text",
}

// DefaultExcludes are glob patterns dropped from imported repository trees.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	"dist/**",
	"build/**",
	"**/.DS_Store",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Env: EnvDevelopment,
		Server: ServerConfig{
			Port:           8080,
			DataDir:        "data",
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
		Content: ContentConfig{
			DefaultLocale: "en",
		},
		Chat: ChatConfig{
			Provider:          ProviderGroq,
			Model:             defaultModels[ProviderGroq],
			Temperature:       0.7,
			MaxTokens:         500,
			RequestsPerMinute: 30,
			TimeoutSeconds:    30,
			Knowledge: KnowledgeConfig{
				Enabled:           false,
				EmbeddingProvider: ProviderOpenAI,
				EmbeddingModel:    defaultEmbeddingModels[ProviderOpenAI],
				Results:           4,
			},
		},
		Contact: ContactConfig{
			Backend:          ContactSQLite,
			SupabaseTable:    "contact_messages",
			MinSecondsOnPage: 5,
			Notify: NotifyConfig{
				SMTPHost: "smtp.gmail.com",
				SMTPPort: 587,
			},
		},
		Admin: AdminConfig{
			SessionTTLHours: 24,
		},
		GitHub: GitHubConfig{
			Exclude: DefaultExcludes,
		},
	}
}

// DefaultModel returns the default chat model for a provider, falling back
// to the Groq default for unknown providers.
func DefaultModel(p ProviderType) string {
	if m, ok := defaultModels[p]; ok {
		return m
	}
	return defaultModels[ProviderGroq]
}

// DefaultEmbeddingModel returns the default embedding model for a provider.
func DefaultEmbeddingModel(p ProviderType) string {
	return defaultEmbeddingModels[p]
}
