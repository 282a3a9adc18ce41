package check

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mohelwah/inkwell/internal/site"
)

// Prober decides whether an external URL is reachable. A nil Prober
// limits the link check to syntax and internal targets.
type Prober interface {
	Reachable(ctx context.Context, rawURL string) error
}

// Links verifies every link and image reference in every document
// body: internal paths must resolve to a served route or a static
// file, external URLs must parse and (with a Prober) respond.
type Links struct {
	Prober Prober
}

func (Links) Name() string { return "links" }

func (l Links) Check(ctx context.Context, s *site.Site) ([]Finding, error) {
	var findings []Finding
	for _, doc := range s.Docs {
		for _, ref := range collectReferences(doc.Body) {
			findings = append(findings, l.checkRef(ctx, s, doc.Path, ref)...)
		}
	}
	return findings, nil
}

func (l Links) checkRef(ctx context.Context, s *site.Site, docPath string, ref reference) []Finding {
	what := "link"
	if ref.image {
		what = "image"
	}

	dest := strings.TrimSpace(ref.dest)
	if dest == "" {
		return []Finding{finding("links", Error, docPath, "", "empty %s destination", what)}
	}

	u, err := url.Parse(dest)
	if err != nil {
		return []Finding{finding("links", Error, docPath, "", "%s %q does not parse: %v", what, dest, err)}
	}

	switch {
	case u.Scheme == "http" || u.Scheme == "https":
		if u.Host == "" {
			return []Finding{finding("links", Error, docPath, "", "%s %q has no host", what, dest)}
		}
		if l.Prober == nil {
			return nil
		}
		if err := l.Prober.Reachable(ctx, dest); err != nil {
			return []Finding{finding("links", Error, docPath, "", "%s %q: %v", what, dest, err)}
		}
		return nil

	case u.Scheme == "mailto":
		return nil

	case u.Scheme != "":
		return []Finding{finding("links", Warning, docPath, "", "%s %q uses scheme %q", what, dest, u.Scheme)}

	case strings.HasPrefix(dest, "#"):
		// In-page anchor; nothing to resolve against.
		return nil

	default:
		return l.checkInternal(s, docPath, what, u.Path)
	}
}

// checkInternal resolves a site-relative path against the route table,
// then against the static asset directory.
func (l Links) checkInternal(s *site.Site, docPath, what, path string) []Finding {
	if path == "" {
		return []Finding{finding("links", Error, docPath, "", "%s has an empty path", what)}
	}
	if !strings.HasPrefix(path, "/") {
		return []Finding{finding("links", Error, docPath, "",
			"%s %q is relative; internal references must be absolute paths like /about/", what, path)}
	}

	if _, ok := s.Lookup(path); ok {
		return nil
	}

	if s.StaticDir != "" {
		target := filepath.Join(s.StaticDir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			return nil
		}
	}

	return []Finding{finding("links", Error, docPath, "",
		"%s %q matches no document route and no static file", what, path)}
}
