package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/mohelwah/inkwell/internal/config"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Scaffold a new post with front-matter",
	Long: `The new command creates content/posts/YYYY-MM-DD-<slug>.md with a
front-matter header filled in from the configuration. It refuses to
overwrite an existing file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := scaffoldPost(appConfig, args[0], time.Now())
		if err != nil {
			return err
		}
		fmt.Println("Created", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func scaffoldPost(cfg config.Config, title string, now time.Time) (string, error) {
	slug := slugify(title)
	if slug == "" {
		return "", fmt.Errorf("title %q produces an empty slug", title)
	}

	name := fmt.Sprintf("%s-%s.md", now.Format("2006-01-02"), slug)
	path := filepath.Join(cfg.ContentDir, "posts", name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create posts directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("layout: post\n")
	fmt.Fprintf(&b, "title: %s\n", title)
	fmt.Fprintf(&b, "date: %s\n", now.Format("2006-01-02"))
	b.WriteString("description: \"\"\n")
	fmt.Fprintf(&b, "permalink: /posts/%s/\n", slug)
	b.WriteString("categories: []\n")
	if cfg.AuthorPolicy == config.AuthorDefault {
		// The platform supplies the default author; leave the key out.
	} else if cfg.DefaultAuthor != "" {
		fmt.Fprintf(&b, "author: %s\n", cfg.DefaultAuthor)
	}
	b.WriteString("---\n\n")

	if err := renameio.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// slugify lowercases the title and folds every non-alphanumeric run
// into a single dash.
func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
