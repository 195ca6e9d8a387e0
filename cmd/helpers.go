package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/trueloving/deskfolio/internal/config"
	"github.com/trueloving/deskfolio/internal/contact"
	"github.com/trueloving/deskfolio/internal/content"
	"github.com/trueloving/deskfolio/internal/db"
	"github.com/trueloving/deskfolio/internal/i18n"
	"github.com/trueloving/deskfolio/internal/knowledge"
	"github.com/trueloving/deskfolio/internal/llm"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `deskfolio init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// loadLibrary reads the portfolio for every supported locale.
func loadLibrary(cfg *config.Config) (*content.Library, error) {
	lib, err := content.NewLibrary(content.Source(cfg.Content.Dir), cfg.Content.DefaultLocale, i18n.Locales)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	return lib, nil
}

// createChatProviderFromConfig returns the rate-limited chat provider, or nil
// when the provider's API key is missing. The chat endpoints then answer
// with a configuration error instead of the process refusing to start.
func createChatProviderFromConfig(cfg *config.Config, log logrus.FieldLogger) llm.Provider {
	if envVar := config.APIKeyEnvVar(cfg.Chat.Provider); envVar != "" && os.Getenv(envVar) == "" {
		log.WithField("env", envVar).Warn("chat provider API key not set; terminal chat disabled")
		return nil
	}
	provider, err := llm.NewProvider(string(cfg.Chat.Provider), cfg.Chat.Model)
	if err != nil {
		log.WithError(err).Warn("creating chat provider; terminal chat disabled")
		return nil
	}
	return llm.NewRateLimitedProvider(provider, cfg.Chat.RequestsPerMinute)
}

// createEmbedderFromConfig creates the embedder used by the knowledge base.
func createEmbedderFromConfig(cfg *config.Config) (knowledge.Embedder, error) {
	kc := cfg.Chat.Knowledge
	model := kc.EmbeddingModel
	if model == "" {
		model = config.DefaultEmbeddingModel(kc.EmbeddingProvider)
	}

	switch kc.EmbeddingProvider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		if kc.EmbeddingBaseURL != "" {
			return knowledge.NewOpenAIEmbedderWithBaseURL(apiKey, model, kc.EmbeddingBaseURL), nil
		}
		return knowledge.NewOpenAIEmbedder(apiKey, model), nil
	case config.ProviderOllama:
		return knowledge.NewOllamaEmbedder(llm.OllamaHost(), model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", kc.EmbeddingProvider)
	}
}

// buildKnowledge loads the persisted knowledge base, syncs it with the
// default-locale portfolio and writes it back.
func buildKnowledge(ctx context.Context, cfg *config.Config, lib *content.Library, log logrus.FieldLogger) (*knowledge.Base, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	base, err := knowledge.New(embedder)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(cfg.Server.DataDir, knowledge.FileName)
	if err := base.Load(path); err != nil {
		log.WithError(err).Warn("could not load knowledge base; rebuilding")
	}

	changed, err := base.Sync(ctx, lib.Get(lib.DefaultLocale()))
	if err != nil {
		return nil, fmt.Errorf("syncing knowledge base: %w", err)
	}
	if err := os.MkdirAll(cfg.Server.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if err := base.Persist(path); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"embedder":  embedder.Name(),
		"documents": base.Count(),
		"embedded":  changed,
	}).Info("knowledge base ready")
	return base, nil
}

// createContactStoreFromConfig returns the configured message store, or nil
// when its backend lacks credentials.
func createContactStoreFromConfig(cfg *config.Config, database *db.DB, log logrus.FieldLogger) contact.Store {
	switch cfg.Contact.Backend {
	case config.ContactSupabase:
		key := config.SupabaseKey()
		if cfg.Contact.SupabaseURL == "" || key == "" {
			log.Warn("SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY not set; contact form disabled")
			return nil
		}
		return contact.NewSupabaseStore(cfg.Contact.SupabaseURL, key, cfg.Contact.SupabaseTable, nil)
	default:
		return contact.NewSQLiteStore(database)
	}
}

// createNotifierFromConfig returns the owner notifiers, or nil when
// notification is disabled.
func createNotifierFromConfig(cfg *config.Config) contact.Notifier {
	n := cfg.Contact.Notify
	if !n.Enabled {
		return nil
	}
	var notifiers contact.Notifiers
	if n.SMTPHost != "" && n.To != "" {
		user, pass := config.SMTPCredentials()
		notifiers = append(notifiers, &contact.SMTPNotifier{
			Host: n.SMTPHost,
			Port: n.SMTPPort,
			User: user,
			Pass: pass,
			To:   n.To,
		})
	}
	if n.WebhookURL != "" {
		notifiers = append(notifiers, contact.NewWebhookNotifier(n.WebhookURL))
	}
	if len(notifiers) == 0 {
		return nil
	}
	return notifiers
}
