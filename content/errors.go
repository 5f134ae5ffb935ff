package content

import (
	"reflect"
	"strings"
)

// Issue is a single violated field in a post's front matter.
type Issue struct {
	Field   string
	Message string
}

// SchemaValidationError is returned when a post's front matter does not
// satisfy the post schema. File is relative to the collection base and is
// empty when the metadata was validated outside of a file.
type SchemaValidationError struct {
	File   string
	Issues []Issue
	Cause  error
}

func (e *SchemaValidationError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	b.WriteString("front matter does not match post schema: ")
	for i, is := range e.Issues {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(is.Field)
		b.WriteString(": ")
		b.WriteString(is.Message)
	}
	return b.String()
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Cause
}

func (e *SchemaValidationError) Is(target error) bool {
	return reflect.TypeOf(e) == reflect.TypeOf(target)
}

// Field returns the first violated field.
func (e *SchemaValidationError) Field() string {
	if len(e.Issues) == 0 {
		return ""
	}
	return e.Issues[0].Field
}

// HasField reports whether field is among the violated fields.
func (e *SchemaValidationError) HasField(field string) bool {
	for _, is := range e.Issues {
		if is.Field == field {
			return true
		}
	}
	return false
}

func (e *SchemaValidationError) add(field, msg string) {
	e.Issues = append(e.Issues, Issue{Field: field, Message: msg})
}
