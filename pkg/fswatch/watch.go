package fswatch

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/datasync/pkg/errors"
)

var fs = afero.NewOsFs()

// WatchDir watches the configuration directory `dir`. It sends an event on
// the returned channel whenever a file in the directory is created, written,
// renamed or removed. Bursts of changes are combined so that a slow consumer
// only sees a single pending event.
// The returned function stops the watch. The events channel is closed once
// the watch has stopped.
func WatchDir(dir string) (<-chan struct{}, func() error, error) {
	fi, err := fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.FileNotFound{Path: dir}
		}
		return nil, nil, errors.WithContext(err, "stat")
	}
	if !fi.IsDir() {
		return nil, nil, errors.NotADirectory{Path: dir}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, errors.WithContext(err, "create watcher")
	}

	if err := watcher.Add(dir); err != nil {
		// Close the watcher so that we release its file handle.
		if err := watcher.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file watcher")
		}
		return nil, nil, errors.WithContext(err, fmt.Sprintf("watch %q", dir))
	}

	go logErrors(dir, watcher.Errors)
	return combineUpdates(filterEvents(watcher.Events)), watcher.Close, nil
}

// filterEvents drops events that can't change the contents of a
// configuration file, such as permission changes.
func filterEvents(events <-chan fsnotify.Event) <-chan fsnotify.Event {
	filtered := make(chan fsnotify.Event)
	go func() {
		defer close(filtered)
		for event := range events {
			if event.Op == fsnotify.Chmod {
				continue
			}
			log.WithField("event", event.String()).Debug("Configuration directory changed")
			filtered <- event
		}
	}()
	return filtered
}

func combineUpdates(updates <-chan fsnotify.Event) chan struct{} {
	combined := make(chan struct{}, 1)
	go func() {
		defer close(combined)
		for range updates {
			select {
			case combined <- struct{}{}:
			default:
			}
		}
	}()
	return combined
}

func logErrors(dir string, errs <-chan error) {
	for err := range errs {
		log.WithError(err).WithField("path", dir).Warn("Error while watching configuration directory")
	}
}
