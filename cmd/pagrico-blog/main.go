// Command pagrico-blog serves, exports and checks the PagRico blog.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	blog "github.com/pagrico/blog"
	"github.com/pagrico/blog/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var envFile string

var rootCmd = &cobra.Command{
	Use:   "pagrico-blog",
	Short: "PagRico blog - pt-BR content site backed by Sanity",
	Long: `pagrico-blog serves the PagRico blog from a Sanity dataset, exports it as
static files and checks that the dataset is reachable.

Configuration comes from the environment (SITE_URL, SANITY_PROJECT_ID,
SANITY_DATASET, SESSION_SECRET, ...), optionally loaded from an env file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		failure("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file to load before reading the environment")
	rootCmd.AddCommand(serveCmd, exportCmd, checkCmd, slugsCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pagrico-blog version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pagrico-blog %s\n", version)
	},
}

// loadApp reads configuration, initializes logging and builds the App.
func loadApp() (*blog.App, error) {
	cfg, err := blog.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel)
	a, err := blog.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	return a, nil
}
