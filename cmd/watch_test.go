package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func watchDirs(t *testing.T) (contentDir, staticDir string) {
	t.Helper()
	contentDir = t.TempDir()
	staticDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "about.md"), []byte("---\ntitle: About\n---\nbody\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "images", "pic.png"), []byte("png"), 0o644))
	return contentDir, staticDir
}

func TestWatchFingerprintsCoverContentAndStatic(t *testing.T) {
	contentDir, staticDir := watchDirs(t)

	sums := watchFingerprints(contentDir, staticDir)
	assert.Contains(t, sums, filepath.Join(contentDir, "about.md"))
	assert.Contains(t, sums, filepath.Join(staticDir, "images", "pic.png"))
	assert.NotContains(t, sums, filepath.Join(contentDir, "notes.txt"),
		"non-Markdown files under content are not checked, so they do not gate a run")
}

func TestWatchFingerprintsChangeOnStaticDelete(t *testing.T) {
	contentDir, staticDir := watchDirs(t)

	before := watchFingerprints(contentDir, staticDir)
	require.NoError(t, os.Remove(filepath.Join(staticDir, "images", "pic.png")))
	after := watchFingerprints(contentDir, staticDir)

	assert.False(t, sameFingerprints(before, after),
		"removing a static asset must trigger a re-check; the link check resolves against it")
}

func TestWatchFingerprintsChangeOnStaticAdd(t *testing.T) {
	contentDir, staticDir := watchDirs(t)

	before := watchFingerprints(contentDir, staticDir)
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "new.css"), []byte("body{}"), 0o644))
	after := watchFingerprints(contentDir, staticDir)

	assert.False(t, sameFingerprints(before, after))
}

func TestWatchFingerprintsStableAcrossTouches(t *testing.T) {
	contentDir, staticDir := watchDirs(t)

	before := watchFingerprints(contentDir, staticDir)
	// Rewrite a document with identical bytes, as editors do on save.
	path := filepath.Join(contentDir, "about.md")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	assert.True(t, sameFingerprints(before, watchFingerprints(contentDir, staticDir)))
}

func TestWatchFingerprintsNoStaticDir(t *testing.T) {
	contentDir, _ := watchDirs(t)
	sums := watchFingerprints(contentDir, "")
	assert.Len(t, sums, 1)
}

func TestSameFingerprints(t *testing.T) {
	a := map[string]string{"x": "1", "y": "2"}
	assert.True(t, sameFingerprints(a, map[string]string{"x": "1", "y": "2"}))
	assert.False(t, sameFingerprints(a, map[string]string{"x": "1"}))
	assert.False(t, sameFingerprints(a, map[string]string{"x": "1", "y": "3"}))
}
