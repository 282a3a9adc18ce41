package check

import "github.com/mohelwah/inkwell/internal/config"

// Default assembles the full checker set for a configuration. prober
// may be nil when external link probing is disabled.
func Default(cfg config.Config, prober Prober) []Checker {
	return []Checker{
		FrontMatter{},
		Required{Keys: cfg.RequiredKeys},
		Links{Prober: prober},
		CodeFences{Known: cfg.KnownLanguages},
		Routes{},
		Authors{Policy: cfg.AuthorPolicy, DefaultName: cfg.DefaultAuthor},
	}
}
