package cmd

import (
	"github.com/spf13/cobra"

	"github.com/trueloving/deskfolio/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "deskfolio",
	Short: "A personal portfolio served as a desktop in the browser",
	Long: `Deskfolio serves a personal portfolio styled as a desktop operating
system: draggable windows, a dock, Spotlight search, a notes app,
a terminal that answers questions in the owner's voice, and a
contact form with an authenticated inbox.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.FileName, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
