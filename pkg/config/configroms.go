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

package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/filters"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/launch"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/romset"
)

var ErrNoEmulator = errors.New("no emulator configured")

func (c *Instance) Emulators() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Emulators.Paths)
}

// SelectedEmulator returns the path of the selected emulator.
func (c *Instance) SelectedEmulator() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := c.vals.Emulators.Paths
	if len(paths) == 0 {
		return "", ErrNoEmulator
	}
	i := c.vals.Emulators.Selected
	if i < 0 || i >= len(paths) {
		i = 0
	}
	return paths[i], nil
}

// EmulatorDataDirs reports whether launches pass relative data
// directories to the emulator.
func (c *Instance) EmulatorDataDirs() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Emulators.DataDirs
}

// AddEmulator appends path unless already present and returns its index.
func (c *Instance) AddEmulator(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := slices.Index(c.vals.Emulators.Paths, path); i >= 0 {
		return i
	}
	c.vals.Emulators.Paths = append(c.vals.Emulators.Paths, path)
	return len(c.vals.Emulators.Paths) - 1
}

// RemoveEmulator drops the emulator at index i. The selection moves to
// the first emulator if it pointed at the removed one.
func (c *Instance) RemoveEmulator(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.vals.Emulators.Paths) {
		return fmt.Errorf("emulator index %d out of range", i)
	}
	c.vals.Emulators.Paths = slices.Delete(c.vals.Emulators.Paths, i, i+1)
	switch {
	case c.vals.Emulators.Selected == i:
		c.vals.Emulators.Selected = 0
	case c.vals.Emulators.Selected > i:
		c.vals.Emulators.Selected--
	}
	return nil
}

func (c *Instance) SelectEmulator(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.vals.Emulators.Paths) {
		return fmt.Errorf("emulator index %d out of range", i)
	}
	c.vals.Emulators.Selected = i
	return nil
}

// RomDirs returns the primary ROM directories followed by the extra ones,
// without duplicates.
func (c *Instance) RomDirs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var dirs []string
	for _, d := range slices.Concat(c.vals.Roms.Dirs, c.vals.Roms.ExtraDirs) {
		if d != "" && !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (c *Instance) SetRomDirs(dirs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Roms.Dirs = slices.Clone(dirs)
}

func (c *Instance) SetExtraRomDirs(dirs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Roms.ExtraDirs = slices.Clone(dirs)
}

func (c *Instance) UseAudit() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Roms.UseAudit
}

func (c *Instance) SetUseAudit(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Roms.UseAudit = enabled
}

func (c *Instance) ShowAllClones() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Roms.ShowAllClones
}

func (c *Instance) SetAssumeMerged(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Roms.AssumeMerged = enabled
}

// RomsetOptions maps the assume-merged switch onto the reconciler's fast
// mode.
func (c *Instance) RomsetOptions() romset.Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mode := romset.ModeAccurate
	if c.vals.Roms.AssumeMerged {
		mode = romset.ModeFast
	}
	return romset.Options{Mode: mode, MergedThreshold: c.vals.Roms.MergedThreshold}
}

func (c *Instance) Favorites() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Roms.Favorites)
}

// ToggleFavorite adds or removes id and reports whether it is now a
// favourite.
func (c *Instance) ToggleFavorite(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := slices.Index(c.vals.Roms.Favorites, id); i >= 0 {
		c.vals.Roms.Favorites = slices.Delete(c.vals.Roms.Favorites, i, i+1)
		return false
	}
	c.vals.Roms.Favorites = append(c.vals.Roms.Favorites, id)
	slices.Sort(c.vals.Roms.Favorites)
	return true
}

// Sort returns the configured sort column, falling back to title for
// unknown names.
func (c *Instance) Sort() (filters.Column, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	col, err := filters.ParseColumn(c.vals.Roms.SortColumn)
	if err != nil {
		col = filters.ColumnTitle
	}
	return col, c.vals.Roms.SortDescending
}

func (c *Instance) Filters() filters.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Filters
}

func (c *Instance) SetFilters(s filters.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Filters = s
}

func (c *Instance) Video() launch.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Video
}

// SetVideo replaces the video settings after validating them.
func (c *Instance) SetVideo(s launch.Settings) error {
	if err := launch.Validate(&s); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Video = s
	return nil
}

// Graphics returns a copy of the preset configuration.
func (c *Instance) Graphics() launch.Graphics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g := c.vals.Graphics
	g.Overrides = maps.Clone(g.Overrides)
	g.Custom = slices.Clone(g.Custom)
	return g
}
