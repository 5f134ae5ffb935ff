// Package content discovers blog post files, parses their front matter and
// validates it against the post schema before the collection is handed to
// the rest of the site.
package content

import (
	"fmt"
	"sort"
	"time"
)

// PostMeta is the validated, normalised front matter of a post.
type PostMeta struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description" validate:"required"`
	PubDate     time.Time  `json:"pubDate" validate:"required"`
	Tags        []string   `json:"tags" validate:"required"`
	Draft       bool       `json:"draft"`
	Image       *ImageMeta `json:"image,omitempty"`
}

// Front matter keys in schema order. Issues are reported in this order.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPubDate     = "pubDate"
	FieldTags        = "tags"
	FieldDraft       = "draft"
	FieldImage       = "image"
	FieldFrontMatter = "frontmatter"
)

var fieldOrder = map[string]int{
	FieldFrontMatter: 0,
	FieldTitle:       1,
	FieldDescription: 2,
	FieldPubDate:     3,
	FieldTags:        4,
	FieldDraft:       5,
	FieldImage:       6,
}

// ImageResolver turns an image reference from front matter into image
// metadata. Implementations resolve src relative to the post file.
type ImageResolver interface {
	ResolveImage(src string) (ImageMeta, error)
}

// Schema validates raw front matter. The zero value is usable; without an
// image resolver, image references are kept unresolved.
type Schema struct {
	Images    ImageResolver
	Validator *Validator
}

// ParsePostMeta validates raw front matter with the default schema.
func ParsePostMeta(raw map[string]any) (PostMeta, error) {
	return Schema{}.Parse(raw)
}

// Parse checks every field of raw and returns the normalised metadata, or a
// *SchemaValidationError listing every violated field.
func (s Schema) Parse(raw map[string]any) (PostMeta, error) {
	var (
		meta PostMeta
		verr SchemaValidationError
	)

	meta.Title = requireString(raw, FieldTitle, &verr)
	meta.Description = requireString(raw, FieldDescription, &verr)

	if v, ok := present(raw, FieldPubDate); !ok {
		verr.add(FieldPubDate, "required")
	} else if t, err := CoerceDate(v); err != nil {
		verr.add(FieldPubDate, fmt.Sprintf("%s, received %s", err, typeName(v)))
	} else {
		meta.PubDate = t
	}

	if v, ok := present(raw, FieldTags); !ok {
		verr.add(FieldTags, "required")
	} else if tags, msg := stringSlice(v); msg != "" {
		verr.add(FieldTags, msg)
	} else {
		meta.Tags = tags
	}

	if v, ok := present(raw, FieldDraft); ok {
		b, isBool := v.(bool)
		if !isBool {
			verr.add(FieldDraft, "expected boolean, received "+typeName(v))
		}
		meta.Draft = b
	}

	if v, ok := present(raw, FieldImage); ok {
		src, isStr := v.(string)
		switch {
		case !isStr:
			verr.add(FieldImage, "expected string, received "+typeName(v))
		case s.Images == nil:
			meta.Image = &ImageMeta{Src: src}
		default:
			img, err := s.Images.ResolveImage(src)
			if err != nil {
				verr.add(FieldImage, err.Error())
			} else {
				meta.Image = &img
			}
		}
	}

	v := s.Validator
	if v == nil {
		v = defaultValidator
	}
	issues, err := v.Issues(meta)
	if err != nil {
		return PostMeta{}, err
	}
	for _, is := range issues {
		if !verr.HasField(is.Field) {
			verr.Issues = append(verr.Issues, is)
		}
	}

	if len(verr.Issues) > 0 {
		sort.SliceStable(verr.Issues, func(i, j int) bool {
			return fieldOrder[verr.Issues[i].Field] < fieldOrder[verr.Issues[j].Field]
		})
		return PostMeta{}, &verr
	}
	return meta, nil
}

// present returns the value for key; a null value counts as absent.
func present(raw map[string]any, key string) (any, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func requireString(raw map[string]any, key string, verr *SchemaValidationError) string {
	v, ok := present(raw, key)
	if !ok {
		verr.add(key, "required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		verr.add(key, "expected string, received "+typeName(v))
		return ""
	}
	return s
}

func stringSlice(v any) ([]string, string) {
	switch items := v.(type) {
	case []string:
		return append([]string{}, items...), ""
	case []any:
		out := make([]string, 0, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Sprintf("element %d: expected string, received %s", i, typeName(item))
			}
			out = append(out, s)
		}
		return out, ""
	default:
		return nil, "expected array, received " + typeName(v)
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	case time.Time, *time.Time:
		return "date"
	case []any, []string:
		return "array"
	case map[string]any, map[any]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
