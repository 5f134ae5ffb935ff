package pubcontent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eringen/pubcontent/content"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Go 1.24   Released!  ", "go-124-released"},
		{"already-a-slug", "already-a-slug"},
		{"a - b", "a-b"},
		{"---", ""},
		{"Café Notes", "café-notes"},
		{"日本語の記事", "日本語の記事"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestSlugifyMatchesEntryID(t *testing.T) {
	for _, title := range []string{"Café Notes", "Hello, World", "日本語の記事"} {
		slug := Slugify(title)
		assert.Equal(t, slug, content.EntryID(slug+".md", nil), title)
	}
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://example.com", BuildURL("https://example.com"))
	assert.Equal(t, "https://example.com/posts/hello/", BuildURL("https://example.com", "posts", "hello"))
	assert.Equal(t, "https://example.com/blog/posts/2024/a/", BuildURL("https://example.com/blog/", "posts", "2024/a"))
}

func TestPostPath(t *testing.T) {
	assert.Equal(t, "/posts/hello/", PostPath("hello"))
	assert.Equal(t, "/posts/2024/hello/", PostPath("/2024/hello/"))
}

func TestFilterEmpty(t *testing.T) {
	assert.Equal(t, []string{"go", "web"}, FilterEmpty([]string{" go ", "", "  ", "web"}))
	assert.Nil(t, FilterEmpty(nil))
}

func TestFilterRelatedPosts(t *testing.T) {
	current := Post{ID: "a", Tags: []string{"Go", " web "}}
	posts := []Post{
		{ID: "a", Tags: []string{"go"}},
		{ID: "b", Tags: []string{"GO"}},
		{ID: "c", Tags: []string{"rust"}},
		{ID: "d", Tags: []string{"web", "go"}},
	}

	related := FilterRelatedPosts(current, posts)
	ids := make([]string, 0, len(related))
	for _, p := range related {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"b", "d"}, ids)
}
