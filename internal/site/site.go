// Package site aggregates loaded documents into the views the checks
// and the CLI work against: date-ordered lists, a category index, and
// the route table.
package site

import (
	"sort"

	"github.com/mohelwah/inkwell/internal/content"
)

// RouteConflict records two or more documents claiming the same URL
// path.
type RouteConflict struct {
	Route string
	Paths []string
}

// Site is the aggregate view over a document set.
type Site struct {
	Title     string
	BaseURL   string
	StaticDir string

	// Docs is every document, sorted by date descending with undated
	// documents last.
	Docs  []*content.Document
	Posts []*content.Document
	Pages []*content.Document

	ByCategory map[string][]*content.Document

	// Routes maps each URL path to the document serving it. On
	// conflict the first document (in sorted order) wins and the
	// conflict is recorded.
	Routes    map[string]*content.Document
	Conflicts []RouteConflict
}

// Build aggregates docs into a Site. The input slice is not modified.
func Build(title, baseURL, staticDir string, docs []*content.Document) *Site {
	s := &Site{
		Title:      title,
		BaseURL:    baseURL,
		StaticDir:  staticDir,
		Docs:       make([]*content.Document, len(docs)),
		ByCategory: map[string][]*content.Document{},
		Routes:     map[string]*content.Document{},
	}
	copy(s.Docs, docs)

	sort.SliceStable(s.Docs, func(i, j int) bool {
		di, dj := s.Docs[i].Date, s.Docs[j].Date
		if di.IsZero() {
			return false
		}
		if dj.IsZero() {
			return true
		}
		return di.After(dj)
	})

	conflicts := map[string][]string{}
	for _, doc := range s.Docs {
		switch doc.Kind {
		case content.KindPost:
			s.Posts = append(s.Posts, doc)
		default:
			s.Pages = append(s.Pages, doc)
		}

		for _, cat := range doc.Matter.Categories {
			s.ByCategory[cat] = append(s.ByCategory[cat], doc)
		}

		route := content.NormalizeRoute(doc.Route)
		if _, taken := s.Routes[route]; taken {
			conflicts[route] = append(conflicts[route], doc.Path)
			continue
		}
		s.Routes[route] = doc
	}

	for route, extras := range conflicts {
		paths := append([]string{s.Routes[route].Path}, extras...)
		s.Conflicts = append(s.Conflicts, RouteConflict{Route: route, Paths: paths})
	}
	sort.Slice(s.Conflicts, func(i, j int) bool { return s.Conflicts[i].Route < s.Conflicts[j].Route })

	return s
}

// Lookup resolves a URL path against the route table, tolerating a
// missing trailing slash.
func (s *Site) Lookup(route string) (*content.Document, bool) {
	doc, ok := s.Routes[content.NormalizeRoute(route)]
	return doc, ok
}
