package check

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/mohelwah/inkwell/internal/site"
)

// CodeFences lints fenced code blocks: every fence must be closed and
// should declare a language from the configured set. An empty Known
// set disables the language lint but still catches unclosed fences.
type CodeFences struct {
	Known []string
}

func (CodeFences) Name() string { return "codefence" }

func (c CodeFences) Check(_ context.Context, s *site.Site) ([]Finding, error) {
	known := map[string]struct{}{}
	for _, lang := range c.Known {
		known[strings.ToLower(lang)] = struct{}{}
	}

	var findings []Finding
	for _, doc := range s.Docs {
		if hasUnclosedFence(doc.Body) {
			findings = append(findings, finding("codefence", Error, doc.Path, "",
				"unclosed code fence"))
		}

		for _, lang := range collectFences(doc.Body) {
			if lang == "" {
				findings = append(findings, finding("codefence", Warning, doc.Path, "",
					"code fence declares no language"))
				continue
			}
			if len(known) == 0 {
				continue
			}
			if _, ok := known[strings.ToLower(lang)]; !ok {
				findings = append(findings, finding("codefence", Warning, doc.Path, "",
					"code fence declares unknown language %q", lang))
			}
		}
	}
	return findings, nil
}

// hasUnclosedFence reports whether a backtick or tilde fence is still
// open at end of body. The Markdown parser silently closes a dangling
// fence at EOF, so this has to track fences on the raw text the way
// the spec does: a fence opens with a run of three or more identical
// markers, and only a run of at least that length of the same marker
// (with nothing but spaces after it) closes it. Fence lines inside an
// open block of the other marker, or shorter runs of the same marker,
// are literal content.
func hasUnclosedFence(body []byte) bool {
	var (
		open    bool
		marker  byte
		openLen int
	)

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimLeft(scanner.Text(), " ")
		m, n, rest := fenceRun(line)
		if n < 3 {
			continue
		}
		if !open {
			open, marker, openLen = true, m, n
			continue
		}
		if m == marker && n >= openLen && strings.TrimSpace(rest) == "" {
			open = false
		}
	}
	return open
}

// fenceRun returns the fence marker ('`' or '~'), the length of its
// leading run, and the remainder of the line.
func fenceRun(line string) (marker byte, length int, rest string) {
	if line == "" || (line[0] != '`' && line[0] != '~') {
		return 0, 0, line
	}
	marker = line[0]
	for length < len(line) && line[length] == marker {
		length++
	}
	return marker, length, line[length:]
}
