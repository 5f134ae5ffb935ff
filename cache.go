package pubcontent

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const (
	cacheKeyPosts = "posts"
	cacheKeyTags  = "tags"
)

// PostCache is an in-memory cache of published posts and tags with TTL.
type PostCache struct {
	posts *ttlcache.Cache[string, []Post]
	tags  *ttlcache.Cache[string, []string]
	store *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{
		posts: ttlcache.New[string, []Post](
			ttlcache.WithTTL[string, []Post](ttl),
			ttlcache.WithDisableTouchOnHit[string, []Post](),
		),
		tags: ttlcache.New[string, []string](
			ttlcache.WithTTL[string, []string](ttl),
			ttlcache.WithDisableTouchOnHit[string, []string](),
		),
		store: s,
	}
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.posts.DeleteAll()
	c.tags.DeleteAll()
}

// ListPosts returns published posts, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]Post, error) {
	posts, err := c.published()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return posts, nil
	}
	normalized := normalizeTag(tag)
	var filtered []Post
	for _, p := range posts {
		for _, t := range p.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published posts.
func (c *PostCache) ListTags() ([]string, error) {
	if item := c.tags.Get(cacheKeyTags); item != nil && !item.IsExpired() {
		return item.Value(), nil
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return nil, err
	}
	c.tags.Set(cacheKeyTags, tags, ttlcache.DefaultTTL)
	return tags, nil
}

// GetPost returns a single published post by id from the cache.
func (c *PostCache) GetPost(id string) (Post, error) {
	posts, err := c.published()
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.ID == id {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

func (c *PostCache) published() ([]Post, error) {
	if item := c.posts.Get(cacheKeyPosts); item != nil && !item.IsExpired() {
		return item.Value(), nil
	}
	posts, err := c.store.ListPosts("", false)
	if err != nil {
		return nil, err
	}
	c.posts.Set(cacheKeyPosts, posts, ttlcache.DefaultTTL)
	return posts, nil
}
