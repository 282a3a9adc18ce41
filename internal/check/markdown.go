package check

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// The Markdown library is used strictly as a parser here; rendering is
// the publishing platform's job. The shared instance is safe for
// concurrent use since no options are modified after construction.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

func parseBody(body []byte) ast.Node {
	return markdown.Parser().Parse(text.NewReader(body))
}

// reference is a link or image destination found in a body.
type reference struct {
	dest  string
	image bool
}

// collectReferences walks the AST and gathers every link, image, and
// autolink destination.
func collectReferences(body []byte) []reference {
	root := parseBody(body)

	var refs []reference
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			refs = append(refs, reference{dest: string(v.Destination)})
		case *ast.Image:
			refs = append(refs, reference{dest: string(v.Destination), image: true})
		case *ast.AutoLink:
			refs = append(refs, reference{dest: string(v.URL(body))})
		}
		return ast.WalkContinue, nil
	})
	return refs
}

// collectFences walks the AST and gathers the declared language of
// every fenced code block ("" for a bare fence).
func collectFences(body []byte) []string {
	root := parseBody(body)

	var langs []string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fence, ok := n.(*ast.FencedCodeBlock); ok {
			langs = append(langs, string(fence.Language(body)))
		}
		return ast.WalkContinue, nil
	})
	return langs
}
