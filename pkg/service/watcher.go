// Zaparoo Arcade
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Arcade.
//
// Zaparoo Arcade is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Arcade is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Arcade.  If not, see <http://www.gnu.org/licenses/>.

package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is how long a ROM directory must be quiet before the
// watcher reports a change.
const DefaultDebounce = 2 * time.Second

// Watcher reports archive changes in ROM directories. Bursts of events,
// such as copying a whole set, collapse into one callback.
type Watcher struct {
	watcher  *fsnotify.Watcher
	clock    clockwork.Clock
	timer    clockwork.Timer
	onChange func()
	isRom    func(name string) bool
	wg       sync.WaitGroup
	mu       sync.Mutex
	stopOnce sync.Once
	delay    time.Duration
	closed   bool
}

type WatcherOption func(*Watcher)

func WithWatcherClock(clock clockwork.Clock) WatcherOption {
	return func(w *Watcher) {
		w.clock = clock
	}
}

func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.delay = d
	}
}

// WatchDirs starts watching dirs. isRom filters file names; events for
// other files are ignored. Directories that cannot be watched are logged
// and skipped. onChange runs on the watcher's timer goroutine.
func WatchDirs(dirs []string, isRom func(string) bool, onChange func(), opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create rom directory watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		clock:    clockwork.NewRealClock(),
		delay:    DefaultDebounce,
		onChange: onChange,
		isRom:    isRom,
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("failed to watch rom directory")
			continue
		}
		log.Debug().Str("dir", dir).Msg("watching rom directory")
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if w.isRom != nil && !w.isRom(event.Name) {
				continue
			}
			log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("rom directory changed")
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("error in rom directory watcher")
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Reset(w.delay)
		return
	}
	w.timer = w.clock.AfterFunc(w.delay, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}
	if w.onChange != nil {
		w.onChange()
	}
}

// Close stops watching. A pending callback is cancelled. Close is safe to
// call more than once.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		if closeErr := w.watcher.Close(); closeErr != nil {
			err = fmt.Errorf("failed to close rom directory watcher: %w", closeErr)
		}
		w.wg.Wait()
	})
	return err
}
