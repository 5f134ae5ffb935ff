package content

import (
	"path"
	"strings"
	"unicode"
)

// EntryID derives the collection id of a post. A non-empty string slug in
// the front matter wins; otherwise every segment of the extensionless path
// is slugged and a trailing "index" segment is dropped.
func EntryID(relPath string, raw map[string]any) string {
	if s, ok := raw["slug"].(string); ok {
		if s = strings.Trim(strings.TrimSpace(s), "/"); s != "" {
			return s
		}
	}

	p := strings.TrimSuffix(relPath, path.Ext(relPath))
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = SlugSegment(seg)
	}
	id := strings.Join(segments, "/")
	if id == "index" {
		return id
	}
	return strings.TrimSuffix(id, "/index")
}

// SlugSegment lowercases s, turns spaces into hyphens and drops everything
// that is not a letter, digit, mark, hyphen or underscore.
func SlugSegment(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
