// Package scaffold renders new post files for the pubcontent CLI from
// embedded templates.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
	"time"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// ErrExists is returned when the target post file already exists.
var ErrExists = errors.New("file already exists")

// PostData holds the template variables of a new post.
type PostData struct {
	Title       string
	Description string
	PubDate     time.Time
	Tags        []string
	Draft       bool
}

var postTemplate = template.Must(template.ParseFS(Templates, "templates/post.md.tmpl"))

// RenderPost writes a post with front matter for data to w. An empty
// description falls back to the title.
func RenderPost(w io.Writer, data PostData) error {
	if data.Description == "" {
		data.Description = data.Title
	}
	if data.PubDate.IsZero() {
		data.PubDate = time.Now()
	}
	return postTemplate.Execute(w, data)
}

// WritePost renders data into dir/name.md and returns the path written.
// Existing files are never overwritten.
func WritePost(dir, name string, data PostData) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	outPath := filepath.Join(dir, name+".md")

	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%s: %w", outPath, ErrExists)
		}
		return "", fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := RenderPost(f, data); err != nil {
		return "", fmt.Errorf("execute template for %s: %w", outPath, err)
	}
	return outPath, f.Close()
}
