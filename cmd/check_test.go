package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohelwah/inkwell/internal/config"
	"github.com/mohelwah/inkwell/internal/report"
)

// withTestConfig swaps the package-level config and logger for the
// test's lifetime.
func withTestConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	prevConfig, prevLogger := appConfig, logger
	appConfig, logger = cfg, zerolog.Nop()
	t.Cleanup(func() { appConfig, logger = prevConfig, prevLogger })
}

func checkConfig(contentDir string) config.Config {
	return config.Config{
		ContentDir:   contentDir,
		AuthorPolicy: config.AuthorAbsent,
		RequiredKeys: []string{"title", "date"},
		Checks: config.Checks{
			LinkTimeout:       time.Second,
			RequestsPerSecond: 1,
		},
	}
}

func TestRunChecksCleanContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.md"),
		[]byte("---\ntitle: About\ndate: 2024-12-01\npermalink: /about/\n---\nbody\n"), 0o644))
	withTestConfig(t, checkConfig(dir))

	var buf bytes.Buffer
	require.NoError(t, runChecks(context.Background(), &buf))
	assert.Contains(t, buf.String(), "✓ 1 document(s) pass all checks")
}

func TestRunChecksReportsFindings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"),
		[]byte("---\ntitle: A\n---\nbody\n"), 0o644))
	withTestConfig(t, checkConfig(dir))

	var buf bytes.Buffer
	err := runChecks(context.Background(), &buf)
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, buf.String(), "required key \"date\"")
}

func TestRunChecksJSONOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"),
		[]byte("---\ntitle: A\n---\nbody\n"), 0o644))
	withTestConfig(t, checkConfig(dir))

	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	var buf bytes.Buffer
	err := runChecks(context.Background(), &buf)
	require.ErrorIs(t, err, errFindings)

	var summary report.Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summary))
	assert.Equal(t, 1, summary.Documents)
	assert.Equal(t, 1, summary.Errors)
}

func TestRunChecksMissingContentDir(t *testing.T) {
	withTestConfig(t, checkConfig(filepath.Join(t.TempDir(), "nope")))

	var buf bytes.Buffer
	err := runChecks(context.Background(), &buf)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errFindings)
}
