package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohelwah/inkwell/internal/config"
	"github.com/mohelwah/inkwell/internal/content"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Worker pools from scratch", "worker-pools-from-scratch"},
		{"Monkeypatching, without tears!", "monkeypatching-without-tears"},
		{"  spaced  out  ", "spaced-out"},
		{"CamelCase Title", "camelcase-title"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), tt.in)
	}
}

func TestScaffoldPost(t *testing.T) {
	cfg := config.Config{
		ContentDir:    t.TempDir(),
		AuthorPolicy:  config.AuthorDefault,
		DefaultAuthor: "Mohamed Elwah",
	}
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	path, err := scaffoldPost(cfg, "Worker pools from scratch", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.ContentDir, "posts", "2025-03-01-worker-pools-from-scratch.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	doc := content.Parse(path, "posts/2025-03-01-worker-pools-from-scratch.md", raw)
	require.Empty(t, doc.Problems, "scaffolded front-matter must parse cleanly")
	assert.Equal(t, "Worker pools from scratch", doc.Matter.Title)
	assert.Equal(t, "2025-03-01", doc.Matter.Date)
	assert.Equal(t, "/posts/worker-pools-from-scratch/", doc.Matter.Permalink)
	_, hasAuthor := doc.Raw["author"]
	assert.False(t, hasAuthor, "default author policy means the key is omitted")
}

func TestScaffoldPostRefusesOverwrite(t *testing.T) {
	cfg := config.Config{ContentDir: t.TempDir(), AuthorPolicy: config.AuthorAbsent}
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := scaffoldPost(cfg, "Hello", now)
	require.NoError(t, err)

	_, err = scaffoldPost(cfg, "Hello", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestScaffoldPostEmptySlug(t *testing.T) {
	cfg := config.Config{ContentDir: t.TempDir(), AuthorPolicy: config.AuthorAbsent}
	_, err := scaffoldPost(cfg, "!!!", time.Now())
	require.Error(t, err)
}
