package pubcontent

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubcontent/content"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test_content.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testEntry(id, date string, tags []string, draft bool) content.Entry {
	d, _ := time.Parse("2006-01-02", date)
	return content.Entry{
		ID:       id,
		FilePath: id + ".md",
		Digest:   content.Digest([]byte(id + date)),
		Body:     "# " + id + "\n",
		Meta: content.PostMeta{
			Title:       "Title " + id,
			Description: "About " + id,
			PubDate:     d,
			Tags:        tags,
			Draft:       draft,
		},
	}
}

func testCollection(entries ...content.Entry) *content.Collection {
	coll := content.NewCollection()
	for _, e := range entries {
		coll.Put(e)
	}
	return coll
}

func seedStore(t *testing.T, s *Store) {
	t.Helper()

	coll := testCollection(
		testEntry("go-intro", "2024-01-15", []string{"Go", "intro"}, false),
		testEntry("go-advanced", "2024-03-01", []string{"go"}, false),
		testEntry("sqlite", "2024-02-10", []string{"db"}, false),
		testEntry("wip", "2024-04-01", []string{"go"}, true),
	)
	require.NoError(t, s.ReplaceCollection(context.Background(), coll))
}

func TestNewStoreCreatesDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "content.db")

	s, err := NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, path)
}

func TestStoreListPostsOrderAndDrafts(t *testing.T) {
	s := setupTestStore(t)
	seedStore(t, s)

	posts, err := s.ListPosts("", false)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "go-advanced", posts[0].ID)
	assert.Equal(t, "sqlite", posts[1].ID)
	assert.Equal(t, "go-intro", posts[2].ID)

	all, err := s.ListAllPosts()
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "wip", all[0].ID)
	assert.True(t, all[0].Draft)
}

func TestStoreListPostsByTag(t *testing.T) {
	s := setupTestStore(t)
	seedStore(t, s)

	posts, err := s.ListPosts("GO", false)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "go-advanced", posts[0].ID)
	assert.Equal(t, "go-intro", posts[1].ID)

	posts, err = s.ListPosts("go", true)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	posts, err = s.ListPosts("missing", false)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestStoreRoundTripsPost(t *testing.T) {
	s := setupTestStore(t)
	e := testEntry("with-image", "2024-01-15", nil, false)
	e.Meta.Image = &content.ImageMeta{Src: "cover.png", Width: 4, Height: 3, Format: "png"}
	require.NoError(t, s.ReplaceCollection(context.Background(), testCollection(e)))

	p, err := s.GetPost("with-image")
	require.NoError(t, err)
	assert.Equal(t, "Title with-image", p.Title)
	assert.Equal(t, "About with-image", p.Description)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), p.PubDate)
	assert.Equal(t, []string{}, p.Tags)
	assert.Equal(t, "# with-image\n", p.Body)
	assert.Equal(t, "/posts/with-image/", p.Link)
	require.NotNil(t, p.Image)
	assert.Equal(t, 4, p.Image.Width)
	assert.Equal(t, "png", p.Image.Format)
}

func TestStoreGetPostHidesDrafts(t *testing.T) {
	s := setupTestStore(t)
	seedStore(t, s)

	_, err := s.GetPost("wip")
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := s.GetPostAny("wip")
	require.NoError(t, err)
	assert.True(t, p.Draft)

	_, err = s.GetPostAny("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreListTags(t *testing.T) {
	s := setupTestStore(t)
	seedStore(t, s)

	tags, err := s.ListTags()
	require.NoError(t, err)
	assert.Equal(t, []string{"db", "go", "intro"}, tags)
}

func TestStoreReplaceCollection(t *testing.T) {
	s := setupTestStore(t)
	seedStore(t, s)

	require.NoError(t, s.ReplaceCollection(context.Background(),
		testCollection(testEntry("only", "2025-01-01", nil, false))))

	posts, err := s.ListAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "only", posts[0].ID)
}

func TestStoreLookupEntry(t *testing.T) {
	s := setupTestStore(t)
	e := testEntry("cached", "2024-01-15", []string{"go"}, false)
	require.NoError(t, s.ReplaceCollection(context.Background(), testCollection(e)))

	got, ok := s.LookupEntry("cached.md", e.Digest)
	require.True(t, ok)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, e.Meta.Title, got.Meta.Title)
	assert.Equal(t, e.Meta.Tags, got.Meta.Tags)
	assert.Equal(t, e.Body, got.Body)

	_, ok = s.LookupEntry("cached.md", "0000000000000000")
	assert.False(t, ok)

	_, ok = s.LookupEntry("other.md", e.Digest)
	assert.False(t, ok)
}
