package pubcontent

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type postsResponse struct {
	Posts []Post `json:"posts"`
	Tag   string `json:"tag,omitempty"`
	Total int    `json:"total"`
}

type postResponse struct {
	Post    Post   `json:"post"`
	Related []Post `json:"related"`
}

type configResponse struct {
	Site         string         `json:"site"`
	Name         string         `json:"name"`
	ContentBase  string         `json:"contentBase"`
	Pattern      string         `json:"pattern"`
	Markdown     MarkdownConfig `json:"markdown"`
	Integrations []string       `json:"integrations"`
	VitePlugins  []string       `json:"vitePlugins"`
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/healthz", handleHealth)
	e.GET("/api/posts", a.handlePosts)
	e.GET("/api/posts/*", a.handlePost)
	e.GET("/api/tags", a.handleTags)
	e.GET("/api/config", a.handleConfig)

	if a.Config.HasIntegration("rss") {
		e.GET("/rss.xml", a.handleFeed)
	}
	if a.Config.HasIntegration("sitemap") {
		e.GET("/sitemap.xml", a.handleSitemap)
	}
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handlePosts(c echo.Context) error {
	tag := c.QueryParam("tag")
	drafts, _ := strconv.ParseBool(c.QueryParam("drafts"))

	var (
		posts []Post
		err   error
	)
	if drafts {
		posts, err = a.Store.ListPosts(tag, true)
	} else {
		posts, err = a.Cache.ListPosts(tag)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: withoutBodies(posts), Tag: tag, Total: len(posts)})
}

func (a *App) handlePost(c echo.Context) error {
	id := strings.Trim(c.Param("*"), "/")
	if id == "" {
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	}
	drafts, _ := strconv.ParseBool(c.QueryParam("drafts"))

	var (
		post Post
		err  error
	)
	if drafts {
		post, err = a.Store.GetPostAny(id)
	} else {
		post, err = a.Cache.GetPost(id)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postResponse{
		Post:    post,
		Related: withoutBodies(FilterRelatedPosts(post, posts)),
	})
}

func (a *App) handleTags(c echo.Context) error {
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]string{"tags": tags})
}

func (a *App) handleConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, configResponse{
		Site:         a.Config.URL,
		Name:         a.Config.Name,
		ContentBase:  a.Config.ContentBase,
		Pattern:      a.Config.Pattern,
		Markdown:     a.Config.Markdown,
		Integrations: a.Config.Integrations,
		VitePlugins:  a.Config.VitePlugins,
	})
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	if code >= 500 {
		a.Logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("Server error")
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"error": msg})
}

// withoutBodies drops markdown bodies from list responses.
func withoutBodies(posts []Post) []Post {
	out := make([]Post, len(posts))
	for i, p := range posts {
		p.Body = ""
		out[i] = p
	}
	return out
}
