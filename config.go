package pubcontent

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/pubcontent/content"
)

// SiteConfig holds all configuration for a pubcontent site. The markdown,
// integration and vite settings are passed through to the site framework
// unchanged; pubcontent only validates and reports them.
type SiteConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	URL         string `mapstructure:"site" yaml:"site" validate:"required,http_url"`
	Description string `mapstructure:"description" yaml:"description"`
	Author      string `mapstructure:"author" yaml:"author"`

	ContentBase string `mapstructure:"content_base" yaml:"content_base"`
	Pattern     string `mapstructure:"pattern" yaml:"pattern"`
	CollectAll  bool   `mapstructure:"collect_all" yaml:"collect_all"` // report every invalid file

	Addr         string        `mapstructure:"addr" yaml:"addr"`
	DatabasePath string        `mapstructure:"database_path" yaml:"database_path"`
	OutputDir    string        `mapstructure:"output_dir" yaml:"output_dir"`
	PostCacheTTL time.Duration `mapstructure:"post_cache_ttl" yaml:"post_cache_ttl"`

	Markdown     MarkdownConfig `mapstructure:"markdown" yaml:"markdown"`
	Integrations []string       `mapstructure:"integrations" yaml:"integrations" validate:"dive,oneof=sitemap rss mdx svelte"`
	VitePlugins  []string       `mapstructure:"vite_plugins" yaml:"vite_plugins" validate:"dive,required"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// MarkdownConfig is the markdown renderer configuration of the site.
type MarkdownConfig struct {
	Themes               ThemeConfig `mapstructure:"themes" yaml:"themes"`
	ExpressiveCodeThemes []string    `mapstructure:"expressive_code_themes" yaml:"expressive_code_themes" validate:"dive,required"`
	RemarkPlugins        []string    `mapstructure:"remark_plugins" yaml:"remark_plugins" validate:"dive,required"`
}

// ThemeConfig names the syntax highlighting themes for light and dark mode.
type ThemeConfig struct {
	Light string `mapstructure:"light" yaml:"light" validate:"required"`
	Dark  string `mapstructure:"dark" yaml:"dark" validate:"required"`
}

// LogConfig selects the log level and output format ("text" or "json").
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

// DefaultSiteConfig returns the configuration used when nothing is set.
func DefaultSiteConfig() SiteConfig {
	var c SiteConfig
	c.setDefaults()
	return c
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:4321"
	}
	if c.ContentBase == "" {
		c.ContentBase = content.DefaultBase
	}
	if c.Pattern == "" {
		c.Pattern = content.DefaultPattern
	}
	if c.Addr == "" {
		c.Addr = ":4321"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = ".pubcontent/content.db"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.Markdown.Themes.Light == "" {
		c.Markdown.Themes.Light = "catppuccin-macchiato"
	}
	if c.Markdown.Themes.Dark == "" {
		c.Markdown.Themes.Dark = "catppuccin-macchiato"
	}
	if c.Markdown.ExpressiveCodeThemes == nil {
		c.Markdown.ExpressiveCodeThemes = []string{"catppuccin-macchiato", "catppuccin-latte"}
	}
	if c.Markdown.RemarkPlugins == nil {
		c.Markdown.RemarkPlugins = []string{"remark-github-blockquote-alert"}
	}
	if c.Integrations == nil {
		c.Integrations = []string{"sitemap", "rss", "mdx", "svelte"}
	}
	if c.VitePlugins == nil {
		c.VitePlugins = []string{"tailwindcss", "expressive-code"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// HasIntegration reports whether the named integration is enabled.
func (c SiteConfig) HasIntegration(name string) bool {
	for _, i := range c.Integrations {
		if strings.EqualFold(i, name) {
			return true
		}
	}
	return false
}

// ConfigError lists the invalid settings of a SiteConfig.
type ConfigError struct {
	Issues []content.Issue
}

func (e *ConfigError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+": "+is.Message)
	}
	return "invalid site config: " + strings.Join(parts, "; ")
}

// Validate checks c after defaults are applied.
func (c SiteConfig) Validate() error {
	v, err := content.NewValidator()
	if err != nil {
		return fmt.Errorf("init validator: %w", err)
	}
	issues, err := v.Issues(c)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return &ConfigError{Issues: issues}
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithStore uses s instead of opening the configured database.
func WithStore(s *Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithLogger sets the application logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}
