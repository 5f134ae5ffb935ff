package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eringen/pubcontent/content"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every post in the content directory",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the content API and reload when posts change",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the enabled integrations (rss.xml, sitemap.xml)",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pubcontent version",
	Args:  cobra.NoArgs,
	// The version needs no config file.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pubcontent %s\n", version)
	},
}

func init() {
	checkCmd.Flags().Bool("all", false, "report every invalid post instead of stopping at the first")
	configCmd.Flags().Bool("path", false, "show config file path")

	rootCmd.AddCommand(checkCmd, serveCmd, exportCmd, configCmd, versionCmd, newCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if all, _ := cmd.Flags().GetBool("all"); all {
		cfg.CollectAll = true
	}
	app := newApp()

	coll, err := app.Check(cmd.Context())
	if err != nil {
		printIssues(err)
		return errors.New("content collection is invalid")
	}

	published := len(coll.Published())
	fmt.Fprintf(cmd.OutOrStdout(), "%d posts valid (%d published, %d drafts)\n",
		coll.Len(), published, coll.Len()-published)
	return nil
}

// printIssues logs one line per schema issue of every failed file.
func printIssues(err error) {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		var verr *content.SchemaValidationError
		if !errors.As(e, &verr) {
			logger.Error().Err(e).Msg("Load failed")
			continue
		}
		for _, is := range verr.Issues {
			logger.Error().
				Str("file", verr.File).
				Str("field", is.Field).
				Msg(is.Message)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp()
	defer app.Close()

	err := app.Serve(ctx)
	var verr *content.SchemaValidationError
	if errors.As(err, &verr) {
		printIssues(err)
	}
	return err
}

func runExport(cmd *cobra.Command, args []string) error {
	app := newApp()

	coll, err := app.Check(cmd.Context())
	if err != nil {
		printIssues(err)
		return errors.New("content collection is invalid")
	}
	written, err := app.Export(coll)
	if err != nil {
		return err
	}
	for _, p := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "  wrote %s\n", p)
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if showPath, _ := cmd.Flags().GetBool("path"); showPath {
		if cfgFile != "" {
			fmt.Fprintln(cmd.OutOrStdout(), cfgFile)
			return nil
		}
		if _, err := os.Stat("pubcontent.yaml"); err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "pubcontent.yaml")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No config file found (using defaults)")
		return nil
	}

	if err := cfg.Validate(); err != nil {
		logger.Warn().Err(err).Msg("Configuration is invalid")
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
