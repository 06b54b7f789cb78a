package app

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"couplecall/config"
	"couplecall/internal/usecase/repo"
	"couplecall/pkg/logger"
)

// coupleReloader re-reads the config file when it changes and swaps in its couples.
// A file that fails to load or validate leaves the current couples in place.
type coupleReloader struct {
	path    string
	couples *repo.StaticCouples
	watcher *fsnotify.Watcher
	l       logger.Interface
	done    chan struct{}
	reloads chan struct{}
}

func newCoupleReloader(path string, couples *repo.StaticCouples, l logger.Interface) (*coupleReloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("app - newCoupleReloader - fsnotify.NewWatcher: %w", err)
	}

	// Editors replace files instead of writing them, so watch the directory.
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()

		return nil, fmt.Errorf("app - newCoupleReloader - watcher.Add: %w", err)
	}

	r := &coupleReloader{
		path:    filepath.Clean(path),
		couples: couples,
		watcher: watcher,
		l:       l,
		done:    make(chan struct{}),
		reloads: make(chan struct{}, 1),
	}

	go r.run()

	return r, nil
}

func (r *coupleReloader) run() {
	defer close(r.done)

	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != r.path || event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			if err := r.reload(); err != nil {
				r.l.Error(err, "app - coupleReloader - keeping previous couples")

				continue
			}

			select {
			case r.reloads <- struct{}{}:
			default:
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}

			r.l.Warn("app - coupleReloader - watcher error: %v", err)
		}
	}
}

func (r *coupleReloader) reload() error {
	cfg, err := config.Load(r.path)
	if err != nil {
		return err
	}

	list, err := cfg.CoupleList()
	if err != nil {
		return err
	}

	if err = r.couples.Replace(list); err != nil {
		return fmt.Errorf("app - reload - r.couples.Replace: %w", err)
	}

	r.l.Info("app - couples reloaded: %d couples", len(list))

	return nil
}

// Close -.
func (r *coupleReloader) Close() error {
	err := r.watcher.Close()
	<-r.done

	return err
}
