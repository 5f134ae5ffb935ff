package pubcontent

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pubcontent/content"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = sql.ErrNoRows

// dbTimeLayout is fixed width so stored dates sort lexically.
const dbTimeLayout = "2006-01-02T15:04:05.000000000Z"

const entryColumns = `id, path, digest, title, description, pub_date, tags, draft, image, body`

// Store keeps the last valid collection in SQLite. It backs the content API
// and serves as the digest cache that lets unchanged files skip validation.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the content API read while a reload writes; the busy timeout
	// makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS entries (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    digest TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    pub_date TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    draft INTEGER NOT NULL DEFAULT 0,
    image TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_path ON entries (path);
`)
	return err
}

// ReplaceCollection atomically replaces the stored entries with coll.
func (s *Store) ReplaceCollection(ctx context.Context, coll *content.Collection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range coll.Entries() {
		p := PostFromEntry(e)
		tags, err := json.Marshal(nonNilTags(p.Tags))
		if err != nil {
			return err
		}
		image := ""
		if p.Image != nil {
			b, err := json.Marshal(p.Image)
			if err != nil {
				return err
			}
			image = string(b)
		}
		draft := 0
		if p.Draft {
			draft = 1
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.FilePath, p.Digest, p.Title, p.Description,
			p.PubDate.UTC().Format(dbTimeLayout), string(tags), draft, image, p.Body); err != nil {
			return fmt.Errorf("store %s: %w", p.FilePath, err)
		}
	}
	return tx.Commit()
}

// ListPosts returns posts ordered by date descending. If tag is non-empty,
// results are filtered to posts carrying that tag (case-insensitive).
// Drafts are only included when includeDrafts is set.
func (s *Store) ListPosts(tag string, includeDrafts bool) ([]Post, error) {
	var (
		where []string
		args  []any
	)
	if !includeDrafts {
		where = append(where, `draft = 0`)
	}
	if tag = normalizeTag(tag); tag != "" {
		where = append(where, `EXISTS (SELECT 1 FROM json_each(entries.tags) WHERE lower(json_each.value) = ?)`)
		args = append(args, tag)
	}
	query := `SELECT ` + entryColumns + ` FROM entries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY pub_date DESC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListAllPosts returns every post, drafts included.
func (s *Store) ListAllPosts() ([]Post, error) {
	return s.ListPosts("", true)
}

// ListTags returns a sorted, deduplicated slice of all tags from published posts.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM entries WHERE draft = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return nil, err
		}
		for _, t := range tags {
			if t = normalizeTag(t); t != "" {
				set[t] = struct{}{}
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetPost returns a single published post by id.
func (s *Store) GetPost(id string) (Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE id = ? AND draft = 0`, id))
}

// GetPostAny returns a post by id regardless of draft status.
func (s *Store) GetPostAny(id string) (Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id))
}

// LookupEntry returns the stored entry for filePath if its digest still
// matches, so the loader can skip validating unchanged files.
func (s *Store) LookupEntry(filePath, digest string) (content.Entry, bool) {
	p, err := scanPost(s.db.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE path = ? AND digest = ?`, filePath, digest))
	if err != nil {
		return content.Entry{}, false
	}
	return p.Entry(), true
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var (
		p                  Post
		pubDate, tags, img string
		draft              int
	)
	if err := row.Scan(&p.ID, &p.FilePath, &p.Digest, &p.Title, &p.Description, &pubDate, &tags, &draft, &img, &p.Body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	t, err := time.Parse(dbTimeLayout, pubDate)
	if err != nil {
		return Post{}, fmt.Errorf("post %s: bad pub_date %q: %w", p.ID, pubDate, err)
	}
	p.PubDate = t
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return Post{}, fmt.Errorf("post %s: bad tags: %w", p.ID, err)
	}
	if img != "" {
		p.Image = &content.ImageMeta{}
		if err := json.Unmarshal([]byte(img), p.Image); err != nil {
			return Post{}, fmt.Errorf("post %s: bad image: %w", p.ID, err)
		}
	}
	p.Draft = draft == 1
	p.Link = PostPath(p.ID)
	return p, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
