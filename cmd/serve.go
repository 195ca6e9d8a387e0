package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/trueloving/deskfolio/internal/logging"
	mcpserver "github.com/trueloving/deskfolio/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the portfolio (profile, projects, notes and search) to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Stdout carries the protocol; logging.New writes to stderr.
		log := logging.New(cfg.Env)

		lib, err := loadLibrary(cfg)
		if err != nil {
			return err
		}

		mcpserver.Version = Version
		srv := mcpserver.NewServer(lib)

		if cfg.Chat.Knowledge.Enabled {
			base, err := buildKnowledge(context.Background(), cfg, lib, log)
			if err != nil {
				log.WithError(err).Warn("ask_portfolio disabled")
			} else {
				srv.SetKnowledge(base)
			}
		}

		log.WithField("locales", lib.Locales()).Info("deskfolio MCP server started on stdio")
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
