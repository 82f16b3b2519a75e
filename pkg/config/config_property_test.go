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
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestPropertyToggleFavoriteTwice verifies toggling any id twice leaves the
// favourites unchanged.
func TestPropertyToggleFavoriteTwice(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		start := rapid.SliceOfDistinct(rapid.StringMatching(`[a-z0-9]{1,8}`), rapid.ID[string]).Draw(t, "start")
		id := rapid.StringMatching(`[a-z0-9]{1,8}`).Draw(t, "id")
		slices.Sort(start)

		cfg := &Instance{vals: BaseDefaults()}
		cfg.vals.Roms.Favorites = slices.Clone(start)

		added := cfg.ToggleFavorite(id)
		assert.Equal(t, !slices.Contains(start, id), added)
		cfg.ToggleFavorite(id)

		assert.ElementsMatch(t, start, cfg.Favorites())
	})
}

// TestPropertyRomDirsUnique verifies the combined directory list has no
// duplicates and keeps primary directories first.
func TestPropertyRomDirsUnique(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		gen := rapid.SliceOf(rapid.SampledFrom([]string{"/a", "/b", "/c", "/d", ""}))
		primary := gen.Draw(t, "primary")
		extra := gen.Draw(t, "extra")

		cfg := &Instance{vals: BaseDefaults()}
		cfg.SetRomDirs(primary)
		cfg.SetExtraRomDirs(extra)
		dirs := cfg.RomDirs()

		seen := map[string]bool{}
		for _, d := range dirs {
			if d == "" || seen[d] {
				t.Fatalf("unexpected entry %q in %v", d, dirs)
			}
			seen[d] = true
		}
		for _, d := range slices.Concat(primary, extra) {
			if d != "" && !seen[d] {
				t.Fatalf("missing %q from %v", d, dirs)
			}
		}
	})
}
