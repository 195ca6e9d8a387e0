package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/trueloving/deskfolio/internal/admin"
	"github.com/trueloving/deskfolio/internal/chat"
	"github.com/trueloving/deskfolio/internal/config"
	"github.com/trueloving/deskfolio/internal/contact"
	"github.com/trueloving/deskfolio/internal/content"
	"github.com/trueloving/deskfolio/internal/db"
	"github.com/trueloving/deskfolio/internal/desktop"
	"github.com/trueloving/deskfolio/internal/i18n"
	"github.com/trueloving/deskfolio/internal/logging"
	"github.com/trueloving/deskfolio/internal/notes"
	"github.com/trueloving/deskfolio/internal/server"
	"github.com/trueloving/deskfolio/internal/spotlight"
	"github.com/trueloving/deskfolio/internal/web"
)

const (
	// layoutRetention is how long an idle visitor's window layout is kept.
	layoutRetention = 30 * 24 * time.Hour
	pruneInterval   = time.Hour
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the desktop portfolio web server",
	Long:  `Starts the deskfolio HTTP server: the desktop UI, its JSON API, the terminal websocket and the admin inbox.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		log := logging.New(cfg.Env)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}

		lib, err := loadLibrary(cfg)
		if err != nil {
			return err
		}

		database, err := db.OpenDir(cfg.Server.DataDir)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowAll:       cfg.Env == config.EnvDevelopment,
		}, database, log)

		svcs := registerAllRoutes(ctx, srv, cfg, lib, log)

		pruned := make(chan struct{})
		go func() {
			defer close(pruned)
			pruneLoop(ctx, svcs.layouts, svcs.auth, log)
		}()

		log.WithFields(logrus.Fields{
			"version":  Version,
			"env":      cfg.Env,
			"database": database.Path(),
			"locales":  lib.Locales(),
			"projects": len(lib.Get(lib.DefaultLocale()).Projects),
		}).Info("deskfolio server starting")

		// Run returns after in-flight handlers finish, so nothing adds to
		// the notification group or touches the database past this point.
		err = srv.Run(ctx)
		stop()
		<-pruned
		svcs.contact.Wait()
		return err
	},
}

// services are the stateful parts the server command keeps after wiring.
type services struct {
	contact *contact.Service
	layouts *desktop.Store
	auth    *admin.Auth
}

// registerAllRoutes wires every feature package onto the server.
func registerAllRoutes(ctx context.Context, srv *server.Server, cfg *config.Config, lib *content.Library, log *logrus.Logger) services {
	database := srv.Database()
	api := srv.API()

	// Portfolio content and translations
	content.RegisterRoutes(api, lib)
	i18n.RegisterRoutes(api, lib.DefaultLocale())

	// Spotlight
	spotlight.RegisterRoutes(api, spotlight.NewIndex(lib))

	// Notes app
	notes.RegisterRoutes(api, lib, notes.NewRenderer())

	// Window manager
	layouts := desktop.NewStore(database)
	desktop.RegisterRoutes(api, desktop.NewManager(layouts), log)

	// Contact form and inbox
	store := createContactStoreFromConfig(cfg, database, log)
	contactSvc := contact.NewService(store, createNotifierFromConfig(cfg), cfg.Contact.MinSecondsOnPage, log)
	contact.RegisterRoutes(api, contactSvc)

	password := config.AdminPassword()
	if cfg.Admin.Username == "" || password == "" {
		log.Warn("ADMIN_USERNAME or ADMIN_PASSWORD not set; admin inbox disabled")
	}
	auth := admin.NewAuth(database, cfg.Admin.Username, password, time.Duration(cfg.Admin.SessionTTLHours)*time.Hour)
	admin.RegisterRoutes(api, auth, store, log)

	// Terminal chat. The websocket outlives the API timeout, so it goes on
	// the bare router.
	chatSvc := chat.NewService(createChatProviderFromConfig(cfg, log), lib, chat.Options{
		Model:       cfg.Chat.Model,
		Temperature: &cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
		Timeout:     time.Duration(cfg.Chat.TimeoutSeconds) * time.Second,
		Snippets:    cfg.Chat.Knowledge.Results,
		Dev:         cfg.Env == config.EnvDevelopment,
	}, log)
	if cfg.Chat.Knowledge.Enabled {
		base, err := buildKnowledge(ctx, cfg, lib, log)
		if err != nil {
			log.WithError(err).Warn("knowledge retrieval disabled")
		} else {
			chatSvc.SetRetriever(base)
		}
	}
	chat.RegisterRoutes(srv.Router(), chatSvc, log)

	// Desktop UI
	web.RegisterRoutes(srv.Router())

	return services{contact: contactSvc, layouts: layouts, auth: auth}
}

// pruneLoop drops stale window layouts and expired admin sessions until ctx ends.
func pruneLoop(ctx context.Context, layouts *desktop.Store, auth *admin.Auth, log logrus.FieldLogger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		if n, err := layouts.Prune(ctx, time.Now().Add(-layoutRetention)); err != nil {
			log.WithError(err).Warn("pruning window layouts")
		} else if n > 0 {
			log.WithField("count", n).Debug("pruned window layouts")
		}
		if n, err := auth.PruneExpired(ctx); err != nil {
			log.WithError(err).Warn("pruning admin sessions")
		} else if n > 0 {
			log.WithField("count", n).Debug("pruned admin sessions")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
