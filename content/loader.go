package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/rs/zerolog"
)

// DefaultBase is the directory post files are discovered in.
const DefaultBase = "./src/content/posts"

// EntryCache supplies previously validated entries so unchanged files are
// not validated again.
type EntryCache interface {
	LookupEntry(filePath, digest string) (Entry, bool)
}

// Loader discovers post files below a base directory and validates them.
type Loader struct {
	base       string
	fsys       fs.FS
	pattern    *Pattern
	logger     zerolog.Logger
	collectAll bool
	cache      EntryCache
	validator  *Validator
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for discovery warnings.
func WithLogger(l zerolog.Logger) LoaderOption {
	return func(ld *Loader) { ld.logger = l }
}

// WithCollectAll makes Load validate every file and report all failures
// instead of stopping at the first one.
func WithCollectAll() LoaderOption {
	return func(ld *Loader) { ld.collectAll = true }
}

// WithEntryCache reuses cached entries whose file digest is unchanged.
func WithEntryCache(c EntryCache) LoaderOption {
	return func(ld *Loader) { ld.cache = c }
}

// WithFS reads files from fsys instead of the base directory on disk.
func WithFS(fsys fs.FS) LoaderOption {
	return func(ld *Loader) { ld.fsys = fsys }
}

// NewLoader returns a loader for base and pattern. Empty values fall back to
// DefaultBase and DefaultPattern.
func NewLoader(base, pattern string, opts ...LoaderOption) (*Loader, error) {
	if base == "" {
		base = DefaultBase
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	p, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}

	l := &Loader{
		base:      base,
		pattern:   p,
		logger:    zerolog.Nop(),
		validator: defaultValidator,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.fsys == nil {
		l.fsys = os.DirFS(base)
	}
	return l, nil
}

// Base returns the base directory.
func (l *Loader) Base() string { return l.base }

// Pattern returns the compiled glob pattern.
func (l *Loader) Pattern() *Pattern { return l.pattern }

// Discover returns the relative, slash separated paths of all candidate
// post files in lexical order. A missing base directory yields no files.
func (l *Loader) Discover() ([]string, error) {
	var files []string
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if l.pattern.Match(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover posts in %s: %w", l.base, err)
	}
	if len(files) == 0 {
		l.logger.Warn().
			Str("base", l.base).
			Str("pattern", l.pattern.String()).
			Msg("No files found matching pattern")
	}
	sort.Strings(files)
	return files, nil
}

// Load discovers and validates every candidate file. By default the first
// invalid file aborts the load; with WithCollectAll every failure is
// returned joined. No collection is returned on failure.
func (l *Loader) Load(ctx context.Context) (*Collection, error) {
	files, err := l.Discover()
	if err != nil {
		return nil, err
	}

	coll := NewCollection()
	var errs []error
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := l.loadFile(rel)
		if err != nil {
			if !l.collectAll {
				return nil, err
			}
			errs = append(errs, err)
			continue
		}

		if prev, ok := coll.Get(entry.ID); ok {
			l.logger.Warn().
				Str("id", entry.ID).
				Str("file", entry.FilePath).
				Str("previous", prev.FilePath).
				Msg("Duplicate id, later file overwrites the earlier one")
		}
		coll.Put(entry)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	l.logger.Debug().Int("entries", coll.Len()).Str("base", l.base).Msg("Collection loaded")
	return coll, nil
}

func (l *Loader) loadFile(rel string) (Entry, error) {
	data, err := fs.ReadFile(l.fsys, rel)
	if err != nil {
		return Entry{}, fmt.Errorf("read %s: %w", rel, err)
	}

	if l.cache != nil {
		// Images live outside the post file, so their digest says nothing
		// about them; entries with an image are always resolved again.
		if entry, ok := l.cache.LookupEntry(rel, Digest(data)); ok && entry.Meta.Image == nil {
			return entry, nil
		}
	}

	schema := Schema{
		Images:    fsImageResolver{fsys: l.fsys, dir: path.Dir(rel)},
		Validator: l.validator,
	}
	return schema.ParseFile(rel, data)
}
