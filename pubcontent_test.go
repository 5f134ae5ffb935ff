package pubcontent

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubcontent/content"
)

const helloPost = `---
title: Hello World
description: The first post
pubDate: 2024-01-15
tags: [go, blog]
---
Hello.
`

const draftPost = `---
title: Work in progress
description: Not yet
pubDate: 2024-02-01
tags: []
draft: true
---
Soon.
`

const brokenPost = `---
title: Broken
pubDate: yesterday-ish
---
`

func writeContent(t *testing.T, dir, rel, data string) {
	t.Helper()

	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
}

func newContentApp(t *testing.T, cfg SiteConfig) *App {
	t.Helper()

	root := t.TempDir()
	if cfg.ContentBase == "" {
		cfg.ContentBase = filepath.Join(root, "posts")
	}
	cfg.DatabasePath = filepath.Join(root, "db", "content.db")
	cfg.OutputDir = filepath.Join(root, "dist")

	a := New(cfg)
	require.NoError(t, a.Open())
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAppReload(t *testing.T) {
	a := newContentApp(t, SiteConfig{})
	writeContent(t, a.Config.ContentBase, "hello.md", helloPost)
	writeContent(t, a.Config.ContentBase, "2024/wip.md", draftPost)
	writeContent(t, a.Config.ContentBase, "_notes.md", brokenPost)

	coll, err := a.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, coll.Len())

	posts, err := a.Cache.ListPosts("")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "hello", posts[0].ID)

	p, err := a.Store.GetPostAny("2024/wip")
	require.NoError(t, err)
	assert.True(t, p.Draft)
}

func TestAppReloadKeepsLastValidCollection(t *testing.T) {
	a := newContentApp(t, SiteConfig{})
	writeContent(t, a.Config.ContentBase, "hello.md", helloPost)

	_, err := a.Reload(context.Background())
	require.NoError(t, err)

	writeContent(t, a.Config.ContentBase, "broken.md", brokenPost)
	_, err = a.Reload(context.Background())
	require.Error(t, err)

	var verr *content.SchemaValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "broken.md", verr.File)
	assert.True(t, verr.HasField(content.FieldDescription))

	posts, err := a.Cache.ListPosts("")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "hello", posts[0].ID)
}

func TestAppReloadRevalidatesImages(t *testing.T) {
	a := newContentApp(t, SiteConfig{})
	writeContent(t, a.Config.ContentBase, "p.md", `---
title: With cover
description: Has an image
pubDate: 2024-01-15
tags: []
image: ./cover.png
---
`)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	writeContent(t, a.Config.ContentBase, "cover.png", buf.String())

	_, err := a.Reload(context.Background())
	require.NoError(t, err)

	p, err := a.Store.GetPost("p")
	require.NoError(t, err)
	require.NotNil(t, p.Image)
	assert.Equal(t, 4, p.Image.Width)

	require.NoError(t, os.Remove(filepath.Join(a.Config.ContentBase, "cover.png")))

	_, err = a.Reload(context.Background())
	var verr *content.SchemaValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "p.md", verr.File)
	assert.True(t, verr.HasField(content.FieldImage))

	_, err = a.Check(context.Background())
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField(content.FieldImage))
}

func TestAppCheckCollectAll(t *testing.T) {
	a := newContentApp(t, SiteConfig{CollectAll: true})
	writeContent(t, a.Config.ContentBase, "a.md", brokenPost)
	writeContent(t, a.Config.ContentBase, "b.md", brokenPost)
	writeContent(t, a.Config.ContentBase, "c.md", helloPost)

	coll, err := a.Check(context.Background())
	require.Error(t, err)
	assert.Nil(t, coll)
	assert.Contains(t, err.Error(), "a.md")
	assert.Contains(t, err.Error(), "b.md")
}

func TestAppCheckMissingBase(t *testing.T) {
	a := newContentApp(t, SiteConfig{ContentBase: filepath.Join(t.TempDir(), "missing")})

	coll, err := a.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, coll.Len())
}

func TestAppExport(t *testing.T) {
	a := newContentApp(t, SiteConfig{URL: "https://example.com"})
	writeContent(t, a.Config.ContentBase, "hello.md", helloPost)
	writeContent(t, a.Config.ContentBase, "wip.md", draftPost)

	coll, err := a.Check(context.Background())
	require.NoError(t, err)

	written, err := a.Export(coll)
	require.NoError(t, err)
	require.Len(t, written, 2)

	feed, err := os.ReadFile(filepath.Join(a.Config.OutputDir, "rss.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(feed), "https://example.com/posts/hello/")
	assert.NotContains(t, string(feed), "Work in progress")

	sitemap, err := os.ReadFile(filepath.Join(a.Config.OutputDir, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "<lastmod>2024-01-15</lastmod>")
}

func TestAppExportSkipsDisabledIntegrations(t *testing.T) {
	a := newContentApp(t, SiteConfig{Integrations: []string{"sitemap"}})

	written, err := a.Export(content.NewCollection())
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, "sitemap.xml", filepath.Base(written[0]))
	assert.NoFileExists(t, filepath.Join(a.Config.OutputDir, "rss.xml"))
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	a := New(SiteConfig{URL: "ftp:/nope", DatabasePath: filepath.Join(t.TempDir(), "c.db")})

	var cerr *ConfigError
	require.ErrorAs(t, a.Open(), &cerr)
	assert.Nil(t, a.Store)
}
