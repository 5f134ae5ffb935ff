package pubcontent

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteYAML = `
name: Example
site: https://example.com
content_base: ./posts
collect_all: true
post_cache_ttl: 30s
markdown:
  themes:
    light: github-light
    dark: github-dark
integrations: [rss]
log:
  level: debug
`

func TestLoadConfigFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(p, []byte(siteYAML), 0o644))

	cfg, err := LoadConfig(p, nil)
	require.NoError(t, err)

	assert.Equal(t, "Example", cfg.Name)
	assert.Equal(t, "https://example.com", cfg.URL)
	assert.Equal(t, "./posts", cfg.ContentBase)
	assert.True(t, cfg.CollectAll)
	assert.Equal(t, 30*time.Second, cfg.PostCacheTTL)
	assert.Equal(t, "github-light", cfg.Markdown.Themes.Light)
	assert.Equal(t, "github-dark", cfg.Markdown.Themes.Dark)
	assert.Equal(t, []string{"rss"}, cfg.Integrations)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, []string{"tailwindcss", "expressive-code"}, cfg.VitePlugins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSiteConfig(), cfg)
}

func TestLoadConfigEnvAndOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PUBCONTENT_SITE", "https://env.example.com")
	t.Setenv("PUBCONTENT_LOG_FORMAT", "json")
	t.Setenv("PUBCONTENT_LOG_LEVEL", "error")

	cfg, err := LoadConfig("", map[string]any{"log.level": "warn"})
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.URL)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "warn", cfg.Log.Level)
}

// chdir changes the working directory for the duration of the test,
// matching testing.T.Chdir (unavailable before Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
