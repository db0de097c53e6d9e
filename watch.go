package pointcloud

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/gekko3d/pointcloud/core"
)

// Watcher signals when a file changes on disk. Bursts of events collapse
// into at most one pending signal, which the render loop drains with a
// non-blocking receive on Reloads.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	reloads chan struct{}
	done    chan struct{}
	log     core.Logger
	wg      sync.WaitGroup
	once    sync.Once
}

// NewWatcher watches the directory containing path, so that editors which
// replace the file by rename keep triggering reloads.
func NewWatcher(path string, log core.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{
		path:    abs,
		watcher: fw,
		reloads: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     core.OrNop(log),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) Reloads() <-chan struct{} { return w.reloads }

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugf("watch: %s", event)
			select {
			case w.reloads <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnf("watch %s: %v", w.path, err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
