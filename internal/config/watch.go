// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// FILE WATCHING
// =============================================================================

// Watcher reloads the config file when it changes on disk, so edits made in
// another terminal take effect without a restart.
type Watcher struct {
	fw       *fsnotify.Watcher
	path     string
	onChange func(*Config)
	done     chan struct{}
}

// Watch starts watching the given config file. onChange receives each
// successfully reloaded config; reload failures are logged and skipped, the
// previous config stays in effect.
func Watch(path string, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory, not the file: editors and atomic saves replace
	// the file, which drops a direct watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		fw:       fw,
		path:     path,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			cfg, err := LoadFromPath(w.path)
			if err != nil {
				log.Printf("config: reload after change failed: %v", err)
				continue
			}
			w.onChange(cfg)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("config: watch error: %v", err)
		}
	}
}

// relevant filters events down to writes of the watched file. Atomic saves
// arrive as Create (rename over the target).
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Clean(event.Name), filepath.Clean(w.path)) {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create)
}
