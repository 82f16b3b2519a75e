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

package audit

import (
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/testing/helpers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cacheDir = "/data/audit"

func TestStoreSaveLoad(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	store := NewStore(fs, cacheDir, helpers.NewMockCommandExecutor())

	assert.Equal(t, filepath.Join(cacheDir, "mame_avail_mame_0_262.ini"), store.Path("mame_0_262"))

	_, ok := store.Load("mame_0_262")
	assert.False(t, ok)

	snap := &Snapshot{Identity: "mame_0_262", Available: map[string]bool{"pacman": true}}
	require.NoError(t, store.Save(snap))

	loaded, ok := store.Load("mame_0_262")
	require.True(t, ok)
	assert.Equal(t, "mame_0_262", loaded.Identity)
	assert.Equal(t, map[string]bool{"pacman": true}, loaded.Available)
	assert.False(t, loaded.Updated.IsZero())

	snap.Available = map[string]bool{"galaxian": true}
	require.NoError(t, store.Save(snap))
	loaded, ok = store.Load("mame_0_262")
	require.True(t, ok)
	assert.Equal(t, map[string]bool{"galaxian": true}, loaded.Available, "save overwrites")

	exists, err := afero.Exists(fs, store.Path("mame_0_262")+".tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStoreSaveRequiresIdentity(t *testing.T) {
	t.Parallel()

	store := NewStore(afero.NewMemMapFs(), cacheDir, helpers.NewMockCommandExecutor())
	require.Error(t, store.Save(&Snapshot{}))
	require.Error(t, store.Save(nil))
}

func TestStoreLoadUnparseable(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	store := NewStore(h.Fs, cacheDir, helpers.NewMockCommandExecutor())
	require.NoError(t, h.WriteFile(store.Path("bad"), []byte("[AVAILABLE\npacman = 1")))

	_, ok := store.Load("bad")
	assert.False(t, ok)
}

func TestStoreListPruneRemove(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	store := NewStore(h.Fs, cacheDir, helpers.NewMockCommandExecutor())

	ids, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, ids, "missing directory lists nothing")

	for _, id := range []string{"mame_0_250", "mame_0_262", "mame64_0_262"} {
		require.NoError(t, store.Save(&Snapshot{Identity: id, Available: map[string]bool{"a": true}}))
	}
	require.NoError(t, h.WriteFile(filepath.Join(cacheDir, "notes.txt"), []byte("x")))
	require.NoError(t, h.WriteFile(filepath.Join(cacheDir, "mame_avail_.ini"), []byte("")))

	ids, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"mame64_0_262", "mame_0_250", "mame_0_262"}, ids)

	removed, err := store.Prune([]string{"mame_0_262"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mame64_0_262", "mame_0_250"}, removed)

	ids, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"mame_0_262"}, ids)

	require.NoError(t, store.Remove("mame_0_262"))
	require.NoError(t, store.Remove("mame_0_262"), "removing twice is fine")
	_, ok := store.Load("mame_0_262")
	assert.False(t, ok)
}
