package check

import (
	"context"
	"sort"

	"github.com/mohelwah/inkwell/internal/content"
	"github.com/mohelwah/inkwell/internal/site"
)

// FrontMatter reports documents whose front-matter failed to load
// cleanly, plus keys outside the recognized set. Load-time problems
// (malformed YAML, duplicate keys, unparseable dates) are errors;
// unrecognized keys are warnings since the platform ignores them.
type FrontMatter struct{}

func (FrontMatter) Name() string { return "frontmatter" }

func (FrontMatter) Check(_ context.Context, s *site.Site) ([]Finding, error) {
	var findings []Finding
	for _, doc := range s.Docs {
		for _, p := range doc.Problems {
			findings = append(findings, finding("frontmatter", Error, doc.Path, p.Key, "%s", p.Message))
		}

		keys := make([]string, 0, len(doc.Raw))
		for key := range doc.Raw {
			if _, ok := content.RecognizedKeys[key]; !ok {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			findings = append(findings, finding("frontmatter", Warning, doc.Path, key,
				"key %q is not consumed by the publishing platform", key))
		}
	}
	return findings, nil
}

// Required verifies that every document carries the configured
// required keys with non-empty values.
type Required struct {
	Keys []string
}

func (Required) Name() string { return "required" }

func (r Required) Check(_ context.Context, s *site.Site) ([]Finding, error) {
	var findings []Finding
	for _, doc := range s.Docs {
		for _, key := range r.Keys {
			if doc.HasKey(key) {
				continue
			}
			msg := "required key %q is missing or empty"
			if key == "title" && doc.TitleFallback {
				msg = "required key %q is missing or empty (falling back to a title derived from the file name)"
			}
			findings = append(findings, finding("required", Error, doc.Path, key, msg, key))
		}
	}
	return findings, nil
}
