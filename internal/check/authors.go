package check

import (
	"context"
	"strings"

	"github.com/mohelwah/inkwell/internal/config"
	"github.com/mohelwah/inkwell/internal/site"
)

// Authors enforces the configured policy for documents without an
// explicit author, uniformly across the whole set.
//
// An author key that is present but empty is always an error: it is
// neither an explicit author nor a clean omission. Under the "default"
// policy the platform supplies DefaultName for omitted keys, so an
// explicit author equal to that name is redundant. Under the "absent"
// policy omitted keys render without attribution, so a set that mixes
// omitted and explicit authors is inconsistent: some documents carry a
// byline and some carry none.
type Authors struct {
	Policy      string
	DefaultName string
}

func (Authors) Name() string { return "authors" }

func (a Authors) Check(_ context.Context, s *site.Site) ([]Finding, error) {
	var findings []Finding
	var omitted, explicit []string

	for _, doc := range s.Docs {
		raw, present := doc.Raw["author"]

		if present && (raw == nil || raw == "") {
			findings = append(findings, finding("authors", Error, doc.Path, "author",
				"author key is present but empty; set a name or remove the key"))
			continue
		}

		if !present {
			omitted = append(omitted, doc.Path)
			continue
		}
		explicit = append(explicit, doc.Path)

		if a.Policy == config.AuthorDefault && doc.Matter.Author == a.DefaultName {
			findings = append(findings, finding("authors", Warning, doc.Path, "author",
				"author %q matches the platform default and can be omitted", a.DefaultName))
		}
	}

	if a.Policy == config.AuthorAbsent && len(omitted) > 0 && len(explicit) > 0 {
		findings = append(findings, finding("authors", Error, "", "author",
			"author usage is mixed: %d document(s) omit the key and render without attribution while %d set it (%s)",
			len(omitted), len(explicit), strings.Join(explicit, ", ")))
	}

	return findings, nil
}
