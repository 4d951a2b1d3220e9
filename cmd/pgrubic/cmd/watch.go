package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const watchDebounce = 100 * time.Millisecond

// watch calls rerun whenever a SQL file under the inputs is written or
// created, until ctx is canceled.
func watch(ctx context.Context, log *logrus.Entry, inputs []string, rerun func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, input := range inputs {
		if err := watchInput(watcher, input); err != nil {
			return fmt.Errorf("failed to watch %s: %w", input, err)
		}
	}
	log.WithField("inputs", inputs).Info("watching for changes, press Ctrl+C to stop")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isSQLFile(event.Name) {
				continue
			}
			log.WithField("file", event.Name).Debug("change detected")
			pending = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")
		case <-pending:
			pending = nil
			rerun(ctx)
		}
	}
}

// watchInput adds a file's directory, or every directory below a
// directory input, to the watcher. Hidden directories are skipped.
func watchInput(watcher *fsnotify.Watcher, input string) error {
	info, err := os.Stat(input)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(input))
	}
	return filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != input && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func isSQLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sql")
}
