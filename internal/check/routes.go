package check

import (
	"context"
	"strings"

	"github.com/mohelwah/inkwell/internal/content"
	"github.com/mohelwah/inkwell/internal/site"
)

// Routes verifies the URL path each document is served at: explicit
// permalinks must be well-formed, and no two documents may claim the
// same path.
type Routes struct{}

func (Routes) Name() string { return "routes" }

func (Routes) Check(_ context.Context, s *site.Site) ([]Finding, error) {
	var findings []Finding

	for _, doc := range s.Docs {
		permalink := doc.Matter.Permalink
		if permalink == "" {
			continue
		}
		if f, ok := lintPermalink(doc.Path, permalink); !ok {
			findings = append(findings, f)
		}
	}

	for _, conflict := range s.Conflicts {
		findings = append(findings, finding("routes", Error, conflict.Paths[0], "permalink",
			"route %s is claimed by %d documents: %s",
			conflict.Route, len(conflict.Paths), strings.Join(conflict.Paths, ", ")))
	}

	return findings, nil
}

func lintPermalink(docPath, permalink string) (Finding, bool) {
	switch {
	case !strings.HasPrefix(permalink, "/"):
		return finding("routes", Error, docPath, "permalink",
			"permalink %q must start with /", permalink), false
	case strings.Contains(permalink, " "):
		return finding("routes", Error, docPath, "permalink",
			"permalink %q contains spaces", permalink), false
	case strings.Contains(permalink, "//"):
		return finding("routes", Error, docPath, "permalink",
			"permalink %q contains an empty segment", permalink), false
	case permalink != content.NormalizeRoute(permalink):
		return finding("routes", Warning, docPath, "permalink",
			"permalink %q is not canonical; the platform serves it as %q",
			permalink, content.NormalizeRoute(permalink)), false
	}
	return Finding{}, true
}
