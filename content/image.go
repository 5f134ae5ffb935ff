package content

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"strings"

	_ "golang.org/x/image/webp"
)

// ImageMeta describes an image referenced from front matter.
type ImageMeta struct {
	Src    string `json:"src"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Format string `json:"format,omitempty"`
}

// fsImageResolver resolves image references relative to a post's directory
// inside the collection file system.
type fsImageResolver struct {
	fsys fs.FS
	dir  string
}

func (r fsImageResolver) ResolveImage(src string) (ImageMeta, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return ImageMeta{}, fmt.Errorf("empty image path")
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return ImageMeta{}, fmt.Errorf("remote images are not supported: %s", src)
	}

	p := path.Clean(path.Join(r.dir, src))
	if strings.HasPrefix(src, "/") {
		p = path.Clean(strings.TrimPrefix(src, "/"))
	}
	if !fs.ValidPath(p) {
		return ImageMeta{}, fmt.Errorf("image path %q escapes the content directory", src)
	}

	f, err := r.fsys.Open(p)
	if err != nil {
		return ImageMeta{}, fmt.Errorf("image %q not found", src)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageMeta{}, fmt.Errorf("decode image %q: %w", src, err)
	}
	return ImageMeta{Src: p, Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
