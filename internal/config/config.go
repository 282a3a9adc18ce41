// Package config holds the site and check configuration loaded from
// config.yaml, environment variables, and flags.
package config

import (
	"fmt"
	"time"
)

// Author policies for documents that omit the author key. The external
// publishing platform either supplies a site-wide default author or
// renders the field as absent; the checks enforce whichever policy is
// configured, uniformly across all documents.
const (
	AuthorDefault = "default"
	AuthorAbsent  = "absent"
)

// Checks configures the content-integrity checks.
type Checks struct {
	// ExternalLinks enables probing of http/https link targets.
	// Internal links and image paths are always checked.
	ExternalLinks bool `mapstructure:"externalLinks"`

	LinkTimeout       time.Duration `mapstructure:"linkTimeout"`
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`

	// CacheFile stores probe results between runs so watch mode does
	// not re-request every URL on each change. Empty disables caching.
	CacheFile string        `mapstructure:"cacheFile"`
	CacheTTL  time.Duration `mapstructure:"cacheTTL"`
}

// Config is the full tool configuration.
type Config struct {
	SiteTitle  string `mapstructure:"siteTitle"`
	BaseURL    string `mapstructure:"baseURL"`
	ContentDir string `mapstructure:"contentDir"`
	StaticDir  string `mapstructure:"staticDir"`

	DefaultAuthor string `mapstructure:"defaultAuthor"`
	AuthorPolicy  string `mapstructure:"authorPolicy"`

	// RequiredKeys must be present and non-empty in every document's
	// front-matter.
	RequiredKeys []string `mapstructure:"requiredKeys"`

	// KnownLanguages is the set of languages fenced code blocks may
	// declare. An empty list disables the language lint.
	KnownLanguages []string `mapstructure:"knownLanguages"`

	Checks Checks `mapstructure:"checks"`
}

// Validate checks the configuration for values the tool cannot work
// with. It does not touch the filesystem; missing directories surface
// when content is loaded.
func Validate(cfg Config) error {
	switch cfg.AuthorPolicy {
	case AuthorDefault, AuthorAbsent:
	default:
		return fmt.Errorf("authorPolicy must be %q or %q, got %q", AuthorDefault, AuthorAbsent, cfg.AuthorPolicy)
	}
	if cfg.AuthorPolicy == AuthorDefault && cfg.DefaultAuthor == "" {
		return fmt.Errorf("authorPolicy %q requires defaultAuthor to be set", AuthorDefault)
	}
	if cfg.ContentDir == "" {
		return fmt.Errorf("contentDir must not be empty")
	}
	if cfg.Checks.LinkTimeout <= 0 {
		return fmt.Errorf("checks.linkTimeout must be positive, got %s", cfg.Checks.LinkTimeout)
	}
	if cfg.Checks.RequestsPerSecond <= 0 {
		return fmt.Errorf("checks.requestsPerSecond must be positive, got %g", cfg.Checks.RequestsPerSecond)
	}
	if cfg.Checks.CacheFile != "" && cfg.Checks.CacheTTL <= 0 {
		return fmt.Errorf("checks.cacheTTL must be positive when checks.cacheFile is set")
	}
	return nil
}
