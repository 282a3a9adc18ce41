// Package content loads blog documents: Markdown files with a YAML
// front-matter header, as consumed by the external publishing platform.
package content

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Document kinds, derived from the top-level directory under the
// content root. Files in posts/ are posts; everything else is a page.
const (
	KindPost = "post"
	KindPage = "page"
)

// RecognizedKeys is the set of front-matter keys the publishing
// platform consumes. Other keys are not an error, but they are flagged
// so typos (e.g. "catagories") do not silently drop metadata.
var RecognizedKeys = map[string]struct{}{
	"layout":      {},
	"menu":        {},
	"date":        {},
	"title":       {},
	"description": {},
	"permalink":   {},
	"categories":  {},
	"author":      {},
}

// Matter is the typed view of a document's front-matter.
type Matter struct {
	Layout      string     `yaml:"layout"`
	Menu        string     `yaml:"menu"`
	Date        string     `yaml:"date"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Permalink   string     `yaml:"permalink"`
	Categories  stringList `yaml:"categories"`
	Author      string     `yaml:"author"`
}

// stringList accepts either a YAML sequence or a single scalar, since
// both spellings of categories appear in the wild.
type stringList []string

func (s *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var one string
		if err := value.Decode(&one); err != nil {
			return err
		}
		*s = stringList{one}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*s = stringList(many)
		return nil
	default:
		return fmt.Errorf("line %d: categories must be a string or a list of strings", value.Line)
	}
}

// Problem records an authoring mistake found while loading a document.
// Problems are findings, not failures: a malformed document must not
// hide problems in the others, so loading always continues.
type Problem struct {
	Key     string
	Message string
}

// Document is a single loaded content file.
type Document struct {
	// Path is the file's path as given to Load; RelPath is relative to
	// the content root with forward slashes.
	Path    string
	RelPath string

	Kind   string
	Matter Matter

	// Raw holds every front-matter key as parsed, including ones the
	// typed Matter does not carry.
	Raw map[string]any

	// Body is the Markdown body with the front-matter stripped.
	Body []byte

	// Source is the complete file as read from disk, used for
	// fingerprinting and fence counting.
	Source []byte

	// Date is the parsed front-matter date, zero when missing or
	// unparseable (the latter also records a Problem).
	Date time.Time

	// Title is the front-matter title, or a fallback derived from the
	// file name when the front-matter has none.
	Title         string
	TitleFallback bool

	// Route is the URL path the platform serves this document at:
	// the front-matter permalink when present, otherwise derived from
	// RelPath.
	Route string

	Problems []Problem
}

// HasKey reports whether the front-matter contains key with a
// non-empty value. YAML nulls and empty strings both count as empty.
func (d *Document) HasKey(key string) bool {
	v, ok := d.Raw[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	if l, ok := v.([]any); ok {
		return len(l) > 0
	}
	return true
}

func (d *Document) problemf(key, format string, args ...any) {
	d.Problems = append(d.Problems, Problem{Key: key, Message: fmt.Sprintf(format, args...)})
}
