/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package content

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ErrNotWatchable is returned by Watch for sources that are not local files.
var ErrNotWatchable = errors.New("only file sources can be watched")

// Watch reloads the store whenever its source file is written, created or
// renamed into place, calling onReload with each result. It blocks until ctx
// is done or the watcher fails.
func Watch(ctx context.Context, s *Store, onReload func(Content, error)) error {
	if IsURL(s.source) || s.source == "" {
		return ErrNotWatchable
	}

	target, err := filepath.Abs(s.source)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors often replace the file rather than write it, so watch the directory.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != target {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			c, err := s.Reload(ctx)
			if onReload != nil {
				onReload(c, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
