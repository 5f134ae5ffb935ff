package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultPattern matches markdown and MDX files at any depth whose name
// does not start with an underscore.
const DefaultPattern = "**/[^_]*.{md,mdx}"

var ErrNoPatternDefined = errors.New("no glob pattern defined")

// Pattern matches slash separated paths relative to the collection base.
// "**/" also matches zero directories and "[^...]" is accepted as a
// negated class.
type Pattern struct {
	raw      string
	compiled []glob.Glob
}

// CompilePattern compiles a loader glob pattern.
func CompilePattern(pattern string) (*Pattern, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, ErrNoPatternDefined
	}

	normalized := strings.ReplaceAll(pattern, "[^", "[!")
	variants := []string{normalized}
	if strings.Contains(normalized, "**/") {
		variants = append(variants, strings.ReplaceAll(normalized, "**/", ""))
	}

	p := &Pattern{raw: pattern}
	for _, v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
		}
		p.compiled = append(p.compiled, g)
	}
	return p, nil
}

// Match reports whether relPath matches the pattern.
func (p *Pattern) Match(relPath string) bool {
	for _, g := range p.compiled {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}

func (p *Pattern) String() string { return p.raw }
