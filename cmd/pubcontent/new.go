package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/pubcontent"
	"github.com/eringen/pubcontent/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a new post with valid front matter",
	Long: `Create a new post in the content directory. The file name is the slugified
title; existing files are never overwritten.

Examples:
  pubcontent new "Hello World"
  pubcontent new "Notes on Go" --tags go,notes --draft`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().String("description", "", "post description (defaults to the title)")
	newCmd.Flags().StringSlice("tags", nil, "comma separated tags")
	newCmd.Flags().Bool("draft", false, "mark the post as a draft")
}

func runNew(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(args[0])
	name := pubcontent.Slugify(title)
	if name == "" {
		return fmt.Errorf("title %q has no characters usable in a file name", args[0])
	}

	description, _ := cmd.Flags().GetString("description")
	tags, _ := cmd.Flags().GetStringSlice("tags")
	draft, _ := cmd.Flags().GetBool("draft")

	path, err := scaffold.WritePost(cfg.ContentBase, name, scaffold.PostData{
		Title:       title,
		Description: strings.TrimSpace(description),
		PubDate:     time.Now(),
		Tags:        pubcontent.FilterEmpty(tags),
		Draft:       draft,
	})
	if err != nil {
		if errors.Is(err, scaffold.ErrExists) {
			return fmt.Errorf("refusing to overwrite: %w", err)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  created %s\n", path)
	return nil
}
