package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/eringen/pubcontent"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	cfg       pubcontent.SiteConfig
	logger    zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pubcontent",
	Short: "Content collection tool for a static blog",
	Long: `pubcontent discovers the markdown posts of a blog, validates their front
matter and keeps the last valid collection for the site build.

Example usage:
  pubcontent check               # Validate every post, stop at the first error
  pubcontent check --all         # Report every invalid post
  pubcontent serve               # Serve the content API and reload on change
  pubcontent export              # Write rss.xml and sitemap.xml
  pubcontent new "My first post" # Create a new post`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pubcontent.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
}

func initConfig(cmd *cobra.Command) error {
	overrides := map[string]any{}
	if cmd.Flags().Changed("log-level") {
		overrides["log.level"] = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		overrides["log.format"] = logFormat
	}

	var err error
	cfg, err = pubcontent.LoadConfig(cfgFile, overrides)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger = pubcontent.NewLogger(cfg.Log)

	logger.Debug().
		Str("content_base", cfg.ContentBase).
		Str("pattern", cfg.Pattern).
		Strs("integrations", cfg.Integrations).
		Msg("Configuration loaded")
	return nil
}

func newApp() *pubcontent.App {
	return pubcontent.New(cfg, pubcontent.WithLogger(logger))
}
