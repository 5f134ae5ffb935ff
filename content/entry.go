package content

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// Entry is a validated post file.
type Entry struct {
	ID       string   `json:"id"`
	FilePath string   `json:"filePath"`
	Meta     PostMeta `json:"data"`
	Body     string   `json:"body"`
	Digest   string   `json:"digest"`
}

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// Digest returns the hex encoded xxhash64 of data.
func Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// SplitFrontMatter separates the YAML front matter of a markup document
// from its body. A document without front matter yields an empty map and
// the whole input as body.
func SplitFrontMatter(data []byte) (map[string]any, []byte, error) {
	var raw map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(data), &raw, yamlFormat)
	if err != nil {
		return nil, nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	normalizeKeys(raw)
	return raw, body, nil
}

// ParseFile validates a single post with the default schema.
func ParseFile(relPath string, data []byte) (Entry, error) {
	return Schema{}.ParseFile(relPath, data)
}

// ParseFile extracts and validates the front matter of the file at relPath
// (relative to the collection base). Errors are *SchemaValidationError
// carrying relPath.
func (s Schema) ParseFile(relPath string, data []byte) (Entry, error) {
	raw, body, err := SplitFrontMatter(data)
	if err != nil {
		return Entry{}, &SchemaValidationError{
			File:   relPath,
			Issues: []Issue{{Field: FieldFrontMatter, Message: err.Error()}},
			Cause:  err,
		}
	}

	meta, err := s.Parse(raw)
	if err != nil {
		if verr, ok := err.(*SchemaValidationError); ok {
			verr.File = relPath
		}
		return Entry{}, err
	}

	return Entry{
		ID:       EntryID(relPath, raw),
		FilePath: relPath,
		Meta:     meta,
		Body:     string(body),
		Digest:   Digest(data),
	}, nil
}

// normalizeKeys converts nested map[any]any values into map[string]any so
// type checks see one map type regardless of how the YAML was decoded.
func normalizeKeys(m map[string]any) {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case map[string]any:
		normalizeKeys(t)
		return t
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	default:
		return v
	}
}
