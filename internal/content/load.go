package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// dateFormats are the accepted front-matter date spellings, most
// specific first.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load walks dir and parses every .md file into a Document. Authoring
// mistakes inside a file become Problems on that document; only
// filesystem failures abort the walk.
func Load(dir string) ([]*Document, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("content directory %s: %w", dir, err)
	}

	var docs []*Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}

		docs = append(docs, Parse(path, filepath.ToSlash(rel), raw))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Parse builds a Document from raw file bytes. It never fails; every
// authoring mistake is recorded as a Problem on the returned document.
func Parse(path, relPath string, raw []byte) *Document {
	doc := &Document{
		Path:    path,
		RelPath: relPath,
		Kind:    kindFromPath(relPath),
		Source:  raw,
	}

	doc.Raw = map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &doc.Raw)
	if err != nil {
		doc.problemf("frontmatter", "front-matter does not parse: %v", err)
		body = raw
	}
	doc.Body = body

	// Second, strict pass over the raw header: yaml.v3 rejects
	// duplicate keys and type mismatches that the lenient pass lets
	// through.
	if matter, ok := splitMatter(raw); ok {
		if err := yaml.Unmarshal(matter, &doc.Matter); err != nil {
			doc.problemf("frontmatter", "front-matter is not well-formed: %v", strictError(err))
		}
	}

	doc.Title = doc.Matter.Title
	if doc.Title == "" {
		doc.Title = titleFromFilename(relPath)
		doc.TitleFallback = true
	}

	if doc.Matter.Date != "" {
		t, ok := parseDate(doc.Matter.Date)
		if !ok {
			doc.problemf("date", "date %q matches no accepted format (use YYYY-MM-DD or RFC3339)", doc.Matter.Date)
		}
		doc.Date = t
	}

	doc.Route = doc.Matter.Permalink
	if doc.Route == "" {
		doc.Route = routeFromPath(relPath)
	}

	return doc
}

// splitMatter extracts the YAML block between the leading "---" line
// and its closing delimiter. ok is false when the file has no
// front-matter header at all.
func splitMatter(raw []byte) (matter []byte, ok bool) {
	const delim = "---"
	s := string(raw)
	if !strings.HasPrefix(s, delim+"\n") && !strings.HasPrefix(s, delim+"\r\n") {
		return nil, false
	}
	rest := s[strings.IndexByte(s, '\n')+1:]
	for _, end := range []string{"\n" + delim + "\n", "\n" + delim + "\r\n"} {
		if i := strings.Index(rest, end); i >= 0 {
			return []byte(rest[:i]), true
		}
	}
	if strings.HasSuffix(rest, "\n"+delim) {
		return []byte(rest[:len(rest)-len(delim)-1]), true
	}
	return nil, false
}

// strictError trims yaml.v3's multi-error preamble down to something
// readable in a finding line.
func strictError(err error) string {
	msg := err.Error()
	msg = strings.TrimPrefix(msg, "yaml: unmarshal errors:\n  ")
	msg = strings.TrimPrefix(msg, "yaml: ")
	return strings.ReplaceAll(msg, "\n  ", "; ")
}

func parseDate(s string) (time.Time, bool) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// titleFromFilename derives a display title from the file name:
// "2024-12-13-worker-pools.md" becomes "Worker Pools".
func titleFromFilename(relPath string) string {
	base := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
	base = trimDatePrefix(base)
	base = strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
	// cases.Caser carries state, so build one per call.
	return cases.Title(language.English).String(strings.TrimSpace(base))
}

// trimDatePrefix drops a leading YYYY-MM-DD- from post file names.
func trimDatePrefix(name string) string {
	if len(name) > 11 {
		if _, err := time.Parse("2006-01-02", name[:10]); err == nil && name[10] == '-' {
			return name[11:]
		}
	}
	return name
}

// routeFromPath derives the served URL path from the content-relative
// file path: posts/2024-12-13-worker-pools.md -> /posts/worker-pools/.
func routeFromPath(relPath string) string {
	dir, file := filepath.Split(relPath)
	slug := trimDatePrefix(strings.TrimSuffix(file, filepath.Ext(file)))
	route := "/" + filepath.ToSlash(filepath.Join(dir, slug)) + "/"
	return NormalizeRoute(route)
}

// NormalizeRoute canonicalizes a URL path: forward slashes, exactly
// one leading and trailing slash.
func NormalizeRoute(route string) string {
	route = filepath.ToSlash(route)
	route = "/" + strings.Trim(route, "/")
	if route != "/" {
		route += "/"
	}
	return route
}

func kindFromPath(relPath string) string {
	parts := strings.SplitN(filepath.ToSlash(relPath), "/", 2)
	if len(parts) == 2 && parts[0] == "posts" {
		return KindPost
	}
	return KindPage
}
