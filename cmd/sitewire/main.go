package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sitewire/sitewire/internal/config"
)

const (
	appName    = "sitewire"
	appVersion = config.Version
)

var (
	flagConfig  string
	flagBaseURL string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Headless interaction engine for CMS campaign sites",
	Long: `Sitewire drives the dynamic surface of a campaign site without a browser:
  - Prefetch and page loading backed by a response cache
  - Form submission with routed validation errors
  - Site search and notification polling
  - Site chrome (navbar and favicon snippets)
  - MCP server exposing the above to AI assistants`,
	Version: appVersion,
	// Default behavior: if stdin is not a terminal, run as MCP server
	Run: func(cmd *cobra.Command, args []string) {
		if !isTerminal(os.Stdin) {
			runMCP(cmd, args)
		} else {
			cmd.Help()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a config file (overrides discovery)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Site base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(chromeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.SetVersionTemplate(fmt.Sprintf("%s v%s\n", appName, appVersion))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// newLogger builds the process logger. Diagnostics go to stderr so
// stdout stays clean for command output and MCP framing.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// loadConfig resolves configuration: an explicit --config path wins,
// otherwise project config in the working directory layered over the
// global file. --base-url overrides whatever was loaded.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		wd, werr := os.Getwd()
		if werr != nil {
			return nil, werr
		}
		cfg, err = config.Load(wd)
	}
	if err != nil {
		return nil, err
	}
	if flagBaseURL != "" {
		cfg.Site.BaseURL = flagBaseURL
	}
	return cfg, nil
}
