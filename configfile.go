package pubcontent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ConfigName is the base name of the config file searched for in the
// working directory.
const ConfigName = "pubcontent"

// LoadConfig reads the site configuration from cfgFile, or from
// pubcontent.yaml in the working directory when cfgFile is empty, and from
// PUBCONTENT_* environment variables. A missing default file is not an
// error. Overrides (keyed like "log.level") take precedence over both.
func LoadConfig(cfgFile string, overrides map[string]any) (SiteConfig, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PUBCONTENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setViperDefaults(v)

	for k, val := range overrides {
		v.Set(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return SiteConfig{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// setViperDefaults registers every key so environment variables are picked
// up by Unmarshal.
func setViperDefaults(v *viper.Viper) {
	d := DefaultSiteConfig()

	v.SetDefault("name", d.Name)
	v.SetDefault("site", d.URL)
	v.SetDefault("description", d.Description)
	v.SetDefault("author", d.Author)

	v.SetDefault("content_base", d.ContentBase)
	v.SetDefault("pattern", d.Pattern)
	v.SetDefault("collect_all", d.CollectAll)

	v.SetDefault("addr", d.Addr)
	v.SetDefault("database_path", d.DatabasePath)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("post_cache_ttl", d.PostCacheTTL)

	v.SetDefault("markdown.themes.light", d.Markdown.Themes.Light)
	v.SetDefault("markdown.themes.dark", d.Markdown.Themes.Dark)
	v.SetDefault("markdown.expressive_code_themes", d.Markdown.ExpressiveCodeThemes)
	v.SetDefault("markdown.remark_plugins", d.Markdown.RemarkPlugins)
	v.SetDefault("integrations", d.Integrations)
	v.SetDefault("vite_plugins", d.VitePlugins)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
