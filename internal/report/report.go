// Package report renders check findings for humans and machines.
package report

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/mohelwah/inkwell/internal/check"
)

// Summary is the machine-readable envelope around a check run.
type Summary struct {
	Documents int             `json:"documents"`
	Errors    int             `json:"errors"`
	Warnings  int             `json:"warnings"`
	Findings  []check.Finding `json:"findings"`
}

// Summarize counts findings by severity.
func Summarize(documents int, findings []check.Finding) Summary {
	s := Summary{Documents: documents, Findings: findings}
	for _, f := range findings {
		if f.Severity == check.Error {
			s.Errors++
		} else {
			s.Warnings++
		}
	}
	if s.Findings == nil {
		s.Findings = []check.Finding{}
	}
	return s
}

// WriteText renders findings grouped by document, one per line.
func WriteText(w io.Writer, s Summary) error {
	lastDoc := "\x00"
	for _, f := range s.Findings {
		if f.Doc != lastDoc {
			fmt.Fprintf(w, "%s:\n", displayDoc(f.Doc))
			lastDoc = f.Doc
		}
		if f.Key != "" {
			fmt.Fprintf(w, "  [%s] %s: %s (%s)\n", f.Severity, f.Key, f.Message, f.Checker)
		} else {
			fmt.Fprintf(w, "  [%s] %s (%s)\n", f.Severity, f.Message, f.Checker)
		}
	}

	switch {
	case s.Errors > 0:
		fmt.Fprintf(w, "%d document(s): %d error(s), %d warning(s)\n", s.Documents, s.Errors, s.Warnings)
	case s.Warnings > 0:
		fmt.Fprintf(w, "✓ %d document(s) pass with %d warning(s)\n", s.Documents, s.Warnings)
	default:
		fmt.Fprintf(w, "✓ %d document(s) pass all checks\n", s.Documents)
	}
	return nil
}

func displayDoc(doc string) string {
	if doc == "" {
		return "(site)"
	}
	return doc
}

// WriteJSON renders the summary as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
