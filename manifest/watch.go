package manifest

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the manifests at paths whenever one of them changes and
// passes the result to onChange. Bursts of events within debounce collapse
// into one reload. Watch blocks until ctx is done.
//
// Directories are watched rather than files so that editors that replace a
// file on save keep being observed.
func Watch(ctx context.Context, paths []string, debounce time.Duration, onChange func(*Manifest, error)) error {
	if len(paths) == 0 {
		return errors.Wrap(ErrInvalid, "no manifest files to watch")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Wrapf(err, "watch %s", p)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange(Load(paths...))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, errors.Wrap(err, "watch"))
		}
	}
}
