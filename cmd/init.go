package cmd

import (
	"github.com/spf13/cobra"

	"github.com/trueloving/deskfolio/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize deskfolio configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the desktop and writes a .deskfolio.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
