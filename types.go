package pubcontent

import (
	"time"

	"github.com/eringen/pubcontent/content"
)

// Post is a validated post as stored in SQLite and served by the content API.
type Post struct {
	ID          string             `json:"id"`
	FilePath    string             `json:"filePath"`
	Digest      string             `json:"digest"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	PubDate     time.Time          `json:"pubDate"`
	Tags        []string           `json:"tags"`
	Draft       bool               `json:"draft"`
	Image       *content.ImageMeta `json:"image,omitempty"`
	Body        string             `json:"body,omitempty"`
	Link        string             `json:"link"`
}

// PostFromEntry converts a validated collection entry.
func PostFromEntry(e content.Entry) Post {
	return Post{
		ID:          e.ID,
		FilePath:    e.FilePath,
		Digest:      e.Digest,
		Title:       e.Meta.Title,
		Description: e.Meta.Description,
		PubDate:     e.Meta.PubDate,
		Tags:        e.Meta.Tags,
		Draft:       e.Meta.Draft,
		Image:       e.Meta.Image,
		Body:        e.Body,
		Link:        PostPath(e.ID),
	}
}

// Entry converts p back into a collection entry.
func (p Post) Entry() content.Entry {
	return content.Entry{
		ID:       p.ID,
		FilePath: p.FilePath,
		Digest:   p.Digest,
		Body:     p.Body,
		Meta: content.PostMeta{
			Title:       p.Title,
			Description: p.Description,
			PubDate:     p.PubDate,
			Tags:        p.Tags,
			Draft:       p.Draft,
			Image:       p.Image,
		},
	}
}
