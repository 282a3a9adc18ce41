package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohelwah/inkwell/internal/check"
	"github.com/mohelwah/inkwell/internal/content"
	"github.com/mohelwah/inkwell/internal/report"
	"github.com/mohelwah/inkwell/internal/site"
	"github.com/mohelwah/inkwell/internal/urlcheck"
)

var jsonOutput bool

// errFindings signals that checks ran but the content has errors. It
// maps to exit code 1, distinct from the exit code 2 of usage and
// configuration failures.
var errFindings = errors.New("content checks failed")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run all content-integrity checks",
	Long: `The check command loads every document under the content directory and
verifies the properties the publishing platform assumes: well-formed
front-matter, required keys, resolvable link and image targets,
well-formed code fences, unique permalinks, and a consistent author
policy. External links are probed only when checks.externalLinks is
enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChecks(cmd.Context(), os.Stdout)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the report as JSON")
	rootCmd.AddCommand(checkCmd)
}

func loadSite() (*site.Site, error) {
	docs, err := content.Load(appConfig.ContentDir)
	if err != nil {
		return nil, err
	}
	return site.Build(appConfig.SiteTitle, appConfig.BaseURL, appConfig.StaticDir, docs), nil
}

func newProber() *urlcheck.Checker {
	if !appConfig.Checks.ExternalLinks {
		return nil
	}
	return urlcheck.New(urlcheck.Options{
		Timeout:           appConfig.Checks.LinkTimeout,
		RequestsPerSecond: appConfig.Checks.RequestsPerSecond,
		CachePath:         appConfig.Checks.CacheFile,
		TTL:               appConfig.Checks.CacheTTL,
	})
}

func runChecks(ctx context.Context, out io.Writer) error {
	s, err := loadSite()
	if err != nil {
		return err
	}

	var prober check.Prober
	urlChecker := newProber()
	if urlChecker != nil {
		prober = urlChecker
		defer func() {
			if err := urlChecker.Close(); err != nil {
				logger.Warn().Err(err).Msg("persist url cache")
			}
		}()
	}

	runner := check.NewRunner(logger, check.Default(appConfig, prober)...)
	findings, err := runner.Run(ctx, s)
	if err != nil {
		return err
	}

	summary := report.Summarize(len(s.Docs), findings)
	if jsonOutput {
		if err := report.WriteJSON(out, summary); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	} else if err := report.WriteText(out, summary); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if check.HasErrors(findings) {
		return errFindings
	}
	return nil
}
