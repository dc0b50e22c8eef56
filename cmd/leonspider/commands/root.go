package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	serviceName       = "leonspider"
	defaultConfigPath = "configs/config.yaml"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "leonspider",
	Short: "leonspider harvests Leon betline odds into a flat text report.",
	// Errors are reported once by ExecuteContext.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "Path to config file (or CONFIG_PATH env)")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
