package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// FileName is the default configuration file looked up in the working directory.
const FileName = ".deskfolio.yml"

const envPrefix = "DESKFOLIO_"

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DESKFOLIO_*, "__" separating nested keys).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// DESKFOLIO_CHAT__MODEL -> chat.model
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Well-known variables used by the hosted deployment.
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = os.Getenv("ADMIN_USERNAME")
	}
	if cfg.Contact.SupabaseURL == "" {
		cfg.Contact.SupabaseURL = os.Getenv("SUPABASE_URL")
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validProviders = map[ProviderType]bool{
	ProviderGroq:      true,
	ProviderOpenAI:    true,
	ProviderAnthropic: true,
	ProviderOllama:    true,
}

var validEmbeddingProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("invalid env %q: must be development or production", c.Env)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.DataDir == "" {
		return fmt.Errorf("server.data_dir is required")
	}

	if c.Content.DefaultLocale == "" {
		return fmt.Errorf("content.default_locale is required")
	}

	if !validProviders[c.Chat.Provider] {
		return fmt.Errorf("invalid chat.provider %q: must be one of groq, openai, anthropic, ollama", c.Chat.Provider)
	}
	if c.Chat.Model == "" {
		return fmt.Errorf("chat.model is required")
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return fmt.Errorf("chat.temperature must be between 0 and 2")
	}
	if c.Chat.MaxTokens <= 0 {
		return fmt.Errorf("chat.max_tokens must be positive")
	}
	if c.Chat.RequestsPerMinute < 0 {
		return fmt.Errorf("chat.requests_per_minute must be non-negative")
	}
	if c.Chat.TimeoutSeconds <= 0 {
		return fmt.Errorf("chat.timeout_seconds must be positive")
	}
	if c.Chat.Knowledge.Enabled && !validEmbeddingProviders[c.Chat.Knowledge.EmbeddingProvider] {
		return fmt.Errorf("invalid chat.knowledge.embedding_provider %q: must be openai or ollama", c.Chat.Knowledge.EmbeddingProvider)
	}

	switch c.Contact.Backend {
	case ContactSQLite:
	case ContactSupabase:
		if c.Contact.SupabaseTable == "" {
			return fmt.Errorf("contact.supabase_table is required for the supabase backend")
		}
	default:
		return fmt.Errorf("invalid contact.backend %q: must be sqlite or supabase", c.Contact.Backend)
	}
	if c.Contact.MinSecondsOnPage < 0 {
		return fmt.Errorf("contact.min_seconds_on_page must be non-negative")
	}
	if n := c.Contact.Notify; n.Enabled && n.WebhookURL == "" && (n.SMTPHost == "" || n.To == "") {
		return fmt.Errorf("contact.notify requires smtp_host and to, or webhook_url")
	}

	if c.Admin.SessionTTLHours <= 0 {
		return fmt.Errorf("admin.session_ttl_hours must be positive")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider. Ollama needs none.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderGroq:
		return "GROQ_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// AdminPassword returns the inbox password from the environment.
func AdminPassword() string {
	return os.Getenv("ADMIN_PASSWORD")
}

// SupabaseKey returns the service-role key used by the supabase contact backend.
func SupabaseKey() string {
	return os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
}

// SMTPCredentials returns the relay login for owner notifications.
func SMTPCredentials() (user, pass string) {
	return os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS")
}

// GitHubToken returns the token used by the project importer, if any.
func GitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}
