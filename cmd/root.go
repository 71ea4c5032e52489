package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/topcoder-platform/topcoder-cli/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "topcoder",
	Short: "Topcoder CLI to interact with Topcoder systems",
	Long: `topcoder - submit to and download from Topcoder challenges

The topcoder CLI uploads the contents of your working directory as a
challenge submission and downloads submissions and review artifacts.

Credentials are read, key by key, from command-line flags, then the
.topcoderrc file in the current directory, then ~/.tcconfig.

Quick Start:
  1. Save credentials:  topcoder config --add username alice
                        topcoder config --add password secret
  2. Submit:            topcoder submit -c 30095545
  3. Download:          topcoder fetch-submissions -c 30095545 --latest`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger := logging.New(os.Stderr, logging.ParseLevel(os.Getenv("LOG_LEVEL")))
		logger.Error(userMessage(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("dev", false, "Points to Topcoder development environment")
}
