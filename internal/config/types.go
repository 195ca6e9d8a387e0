package config

// Env selects logging format and how much error detail reaches clients.
type Env string

const (
	EnvDevelopment Env = "development"
	EnvProduction  Env = "production"
)

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderGroq      ProviderType = "groq"
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
)

// ContactBackend selects where contact form submissions are persisted.
type ContactBackend string

const (
	ContactSQLite   ContactBackend = "sqlite"
	ContactSupabase ContactBackend = "supabase"
)

// Config is the top-level deskfolio configuration, corresponding to .deskfolio.yml.
type Config struct {
	Env     Env           `yaml:"env" koanf:"env"`
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Content ContentConfig `yaml:"content" koanf:"content"`
	Chat    ChatConfig    `yaml:"chat" koanf:"chat"`
	Contact ContactConfig `yaml:"contact" koanf:"contact"`
	Admin   AdminConfig   `yaml:"admin" koanf:"admin"`
	GitHub  GitHubConfig  `yaml:"github" koanf:"github"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int      `yaml:"port" koanf:"port"`
	DataDir        string   `yaml:"data_dir" koanf:"data_dir"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
}

// ContentConfig points at the portfolio content. An empty Dir means the
// content compiled into the binary.
type ContentConfig struct {
	Dir           string `yaml:"dir" koanf:"dir"`
	DefaultLocale string `yaml:"default_locale" koanf:"default_locale"`
}

// ChatConfig configures the terminal chat proxy.
type ChatConfig struct {
	Provider          ProviderType    `yaml:"provider" koanf:"provider"`
	Model             string          `yaml:"model" koanf:"model"`
	Temperature       float64         `yaml:"temperature" koanf:"temperature"`
	MaxTokens         int             `yaml:"max_tokens" koanf:"max_tokens"`
	RequestsPerMinute int             `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	TimeoutSeconds    int             `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	Knowledge         KnowledgeConfig `yaml:"knowledge" koanf:"knowledge"`
}

// KnowledgeConfig enables retrieval of portfolio snippets into the chat prompt.
type KnowledgeConfig struct {
	Enabled           bool         `yaml:"enabled" koanf:"enabled"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	// EmbeddingBaseURL points OpenAI embeddings at a compatible server.
	EmbeddingBaseURL string `yaml:"embedding_base_url" koanf:"embedding_base_url"`
	Results          int    `yaml:"results" koanf:"results"`
}

// ContactConfig configures contact form persistence and owner notification.
type ContactConfig struct {
	Backend          ContactBackend `yaml:"backend" koanf:"backend"`
	SupabaseURL      string         `yaml:"supabase_url" koanf:"supabase_url"`
	SupabaseTable    string         `yaml:"supabase_table" koanf:"supabase_table"`
	MinSecondsOnPage float64        `yaml:"min_seconds_on_page" koanf:"min_seconds_on_page"`
	Notify           NotifyConfig   `yaml:"notify" koanf:"notify"`
}

// NotifyConfig describes how the owner hears about new messages: an e-mail
// through an SMTP relay (credentials from SMTP_USER and SMTP_PASS), a JSON
// webhook, or both.
type NotifyConfig struct {
	Enabled    bool   `yaml:"enabled" koanf:"enabled"`
	SMTPHost   string `yaml:"smtp_host" koanf:"smtp_host"`
	SMTPPort   int    `yaml:"smtp_port" koanf:"smtp_port"`
	To         string `yaml:"to" koanf:"to"`
	WebhookURL string `yaml:"webhook_url,omitempty" koanf:"webhook_url"`
}

// AdminConfig configures the inbox login. The password only ever comes from
// the ADMIN_PASSWORD environment variable.
type AdminConfig struct {
	Username        string `yaml:"username" koanf:"username"`
	SessionTTLHours int    `yaml:"session_ttl_hours" koanf:"session_ttl_hours"`
}

// GitHubConfig configures the project importer.
type GitHubConfig struct {
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}
