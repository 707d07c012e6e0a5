// Package watch reloads stores when an external process rewrites their backing
// files. Best effort only: there is no cross-process locking, so this narrows
// the lost-update window, it does not close it.
package watch

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Reloader is the slice of a store the watcher needs. Reload reports whether
// the file was actually re-read, which lets the store ignore events raised by
// its own writes.
type Reloader interface {
	Reload() bool
}

type Watcher struct {
	fw      *fsnotify.Watcher
	targets map[string]Reloader // keyed by absolute file path
}

func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{fw: fw, targets: map[string]Reloader{}}, nil
}

// Track registers a store file to reload on change.
func (w *Watcher) Track(path string, r Reloader) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	w.targets[abs] = r
}

// Start watches dir and dispatches reloads until the watcher is closed.
func (w *Watcher) Start(dir string) error {
	if err := w.fw.Add(dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if strings.HasSuffix(ev.Name, ".tmp") {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if r, ok := w.targets[abs]; ok {
				r.Reload()
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		}
	}
}

func (w *Watcher) Close() error {
	return w.fw.Close()
}
