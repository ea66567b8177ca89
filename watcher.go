package dotedit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debouncer coalesces rapid event bursts into a single callback per file.
type debouncer struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	timers map[string]*time.Timer
	delay  time.Duration
	onFire func(path string)
}

func newDebouncer(delay time.Duration, onFire func(path string)) *debouncer {
	return &debouncer{
		timers: make(map[string]*time.Timer),
		delay:  delay,
		onFire: onFire,
	}
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[path]; ok && t.Stop() {
		t.Reset(d.delay)
		return
	}
	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.timers[path] == t {
			delete(d.timers, path)
		}
		d.mu.Unlock()
		d.onFire(path)
	})
	d.timers[path] = t
}

// stop cancels pending callbacks and waits for running ones to finish.
func (d *debouncer) stop() {
	d.mu.Lock()
	for path, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, path)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func watchRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && hidden(path) {
				return filepath.SkipDir
			}
			return w.Add(path)
		}
		return nil
	})
}

// Watch scans dir and then keeps the catalog in step with changes beneath
// it until ctx is cancelled. A file is synced once it has been left alone
// for delay.
func (c *Catalog) Watch(ctx context.Context, dir string, delay time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := watchRecursive(w, dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	// Only one file is synced at a time
	var mu sync.Mutex
	d := newDebouncer(delay, func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if err := c.syncFile(path); err != nil {
			c.logger.Printf("Unable to sync \"%s\": %v\n", path, err)
		}
	})
	defer d.stop()

	if err := c.Scan(dir); err != nil {
		return err
	}
	c.logger.Printf("Watching \"%s\"\n", dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if hidden(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchRecursive(w, ev.Name); err != nil {
						c.logger.Printf("Unable to watch \"%s\": %v\n", ev.Name, err)
					}
					// Files may have landed before the watch was added
					filepath.WalkDir(ev.Name, func(path string, de os.DirEntry, err error) error {
						if err == nil && !de.IsDir() {
							d.trigger(path)
						}
						return nil
					})
					continue
				}
			}
			if kind, _ := classify(ev.Name); kind == otherFile {
				continue
			}
			d.trigger(ev.Name)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.logger.Printf("Watcher error: %v\n", err)
		}
	}
}
