package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mohelwah/inkwell/internal/fingerprint"
)

// debounceDelay batches bursts of filesystem events (editors often
// write, rename, and chmod in quick succession) into one check run.
const debounceDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the checks whenever the content changes",
	Long: `The watch command runs the full check suite, then watches the content
and static directories and re-runs it after every change. Events that
do not alter any document's bytes (editor temp files, chmods) are
ignored via content fingerprints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context) error {
	if err := checkOnce(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range []string{appConfig.ContentDir, appConfig.StaticDir} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			logger.Warn().Str("dir", dir).Msg("directory not found, not watching")
			continue
		}
		if err := watchTree(watcher, dir); err != nil {
			return err
		}
	}

	logger.Info().Msg("watching for changes, press Ctrl+C to stop")

	fingerprints := watchFingerprints(appConfig.ContentDir, appConfig.StaticDir)
	var timer *time.Timer
	fired := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			// New subdirectories are not watched automatically.
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					logger.Warn().Err(err).Str("dir", event.Name).Msg("watch new directory")
				}
			}
			logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case fired <- struct{}{}:
				default:
				}
			})

		case <-fired:
			next := watchFingerprints(appConfig.ContentDir, appConfig.StaticDir)
			if sameFingerprints(fingerprints, next) {
				logger.Debug().Msg("no watched bytes changed, skipping run")
				continue
			}
			fingerprints = next

			if err := checkOnce(ctx); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// checkOnce runs the suite, treating findings as output rather than a
// reason to stop watching.
func checkOnce(ctx context.Context) error {
	err := runChecks(ctx, os.Stdout)
	if err != nil && !errors.Is(err, errFindings) {
		return err
	}
	return nil
}

func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				logger.Warn().Err(err).Str("dir", path).Msg("watch directory")
			}
		}
		return nil
	})
}

// watchFingerprints maps every watched file to a fingerprint of its
// bytes: Markdown documents under the content directory plus every
// static asset, since the link check resolves against both. A deleted
// file drops out of the map, which also reads as a change.
func watchFingerprints(contentDir, staticDir string) map[string]string {
	sums := map[string]string{}
	fingerprintTree(sums, contentDir, func(name string) bool {
		return strings.HasSuffix(strings.ToLower(name), ".md")
	})
	if staticDir != "" {
		fingerprintTree(sums, staticDir, func(string) bool { return true })
	}
	return sums
}

func fingerprintTree(sums map[string]string, root string, keep func(name string) bool) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !keep(d.Name()) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		sums[path] = fingerprint.Sum(data)
		return nil
	})
}

func sameFingerprints(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for path, sum := range a {
		if b[path] != sum {
			return false
		}
	}
	return true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
