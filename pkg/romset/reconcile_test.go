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

package romset

import (
	"errors"
	"testing"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/archives"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/audit"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInspector serves archive listings from memory. Paths without an
// entry fail to open.
type fakeInspector struct {
	listings map[string][]string
	calls    map[string]int
}

func (f *fakeInspector) List(path string) ([]string, error) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[path]++
	names, ok := f.listings[path]
	if !ok {
		return nil, errors.New("cannot open archive")
	}
	return names, nil
}

func marioMachines() map[string]catalog.Machine {
	return map[string]catalog.Machine{
		"mario": {ID: "mario", Description: "Mario Bros. (US, Revision G)"},
		"bros":  {ID: "bros", Description: "Mario Bros. (Japan)", Parent: "mario"},
	}
}

func ids(roms []Rom) []string {
	out := make([]string, 0, len(roms))
	for _, r := range roms {
		out = append(out, r.ID)
	}
	return out
}

func scanRoms(t *testing.T, sets map[string][]string) (*archives.Scanner, []archives.Entry) {
	t.Helper()
	h := helpers.NewMemoryFS()
	require.NoError(t, h.CreateRomDir("/roms", sets))
	scanner := archives.NewScanner(h.Fs)
	return scanner, scanner.Scan([]string{"/roms"})
}

func TestReconcileScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sets        map[string][]string
		name        string
		wantIDs     []string
		wantVirtual []string
		mode        Mode
	}{
		{
			name:    "accurate small parent archive hides clone",
			sets:    map[string][]string{"mario": {"mario.a", "shared.b"}},
			mode:    ModeAccurate,
			wantIDs: []string{"mario"},
		},
		{
			name: "accurate finds clone by file prefix",
			sets: map[string][]string{"mario": {
				"mario.a", "mario.b", "mario.c", "mario.d", "s1", "s2", "s3", "bros.rom",
			}},
			mode:    ModeAccurate,
			wantIDs: []string{"mario", "bros"},
		},
		{
			name:    "fast adds clone without looking",
			sets:    map[string][]string{"mario": {"mario.a", "shared.b"}},
			mode:    ModeFast,
			wantIDs: []string{"mario", "bros"},
		},
		{
			name:        "clone without parent archive gets a virtual parent",
			sets:        map[string][]string{"bros": {"bros.a"}},
			mode:        ModeAccurate,
			wantIDs:     []string{"bros"},
			wantVirtual: []string{"mario"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scanner, entries := scanRoms(t, tt.sets)
			result := Reconcile(Input{
				Machines:  marioMachines(),
				Entries:   entries,
				Inspector: scanner,
			}, Options{Mode: tt.mode}, nil)

			assert.ElementsMatch(t, tt.wantIDs, ids(result.Roms))
			assert.ElementsMatch(t, tt.wantVirtual, ids(result.Virtual))
			assert.Equal(t, SourceScan, result.Source)
		})
	}
}

func TestReconcileVirtualParentRow(t *testing.T) {
	t.Parallel()

	scanner, entries := scanRoms(t, map[string][]string{"bros": {"bros.a"}})
	result := Reconcile(Input{Machines: marioMachines(), Entries: entries, Inspector: scanner}, Options{}, nil)

	mario, ok := result.Find("mario")
	require.True(t, ok)
	assert.True(t, mario.IsVirtual)
	assert.True(t, mario.HasClones)
	assert.Equal(t, "Mario Bros. (US, Revision G)", mario.Name)
	assert.Equal(t, "Mario Bros. (US, Revision G)", result.Plan.VirtualParents["mario"])

	bros, ok := result.Find("bros")
	require.True(t, ok)
	assert.True(t, bros.IsClone)
	assert.False(t, bros.IsVirtual)
	assert.Equal(t, "mario", result.Plan.CloneToParent["bros"])
	assert.Equal(t, []Ref{{Name: "Mario Bros. (Japan)", ID: "bros"}}, result.Plan.ParentToClones["mario"])
}

func TestReconcileAccurateThreshold(t *testing.T) {
	t.Parallel()

	machines := marioMachines()
	six := []string{"a", "b", "c", "d", "e", "f"}
	inspector := &fakeInspector{listings: map[string][]string{"/roms/mario.zip": six}}
	entries := []archives.Entry{{Stem: "mario", Path: "/roms/mario.zip", Dir: "/roms"}}

	result := Reconcile(Input{Machines: machines, Entries: entries, Inspector: inspector}, Options{}, nil)
	assert.ElementsMatch(t, []string{"mario", "bros"}, result.IDs(), "more than five files means merged")

	result = Reconcile(Input{Machines: machines, Entries: entries, Inspector: inspector},
		Options{MergedThreshold: 6}, nil)
	assert.Equal(t, []string{"mario"}, result.IDs())
	assert.Equal(t, 2, inspector.calls["/roms/mario.zip"], "archive is listed once per reconcile")
}

func TestReconcileUnreadableParentArchive(t *testing.T) {
	t.Parallel()

	entries := []archives.Entry{{Stem: "mario", Path: "/roms/mario.zip", Dir: "/roms"}}
	input := Input{Machines: marioMachines(), Entries: entries, Inspector: &fakeInspector{}}

	assert.Equal(t, []string{"mario"}, Reconcile(input, Options{Mode: ModeAccurate}, nil).IDs())
	assert.ElementsMatch(t, []string{"mario", "bros"}, Reconcile(input, Options{Mode: ModeFast}, nil).IDs())
}

func TestReconcileUnknownArchive(t *testing.T) {
	t.Parallel()

	entries := []archives.Entry{
		{Stem: "homebrew", Path: "/roms/homebrew.zip"},
		{Stem: "homebrew", Path: "/extra/homebrew.zip"},
	}
	result := Reconcile(Input{Machines: marioMachines(), Entries: entries}, Options{}, nil)

	require.Len(t, result.Roms, 1)
	assert.Equal(t, Rom{Name: "homebrew", ID: "homebrew"}, result.Roms[0])
	assert.Equal(t, "/roms/homebrew.zip", result.OnDisk["homebrew"])
	assert.Empty(t, result.Virtual)
}

func TestReconcileAuditDriven(t *testing.T) {
	t.Parallel()

	machines := marioMachines()
	machines["neogeo"] = catalog.Machine{ID: "neogeo", IsBIOS: true}
	machines["z80"] = catalog.Machine{ID: "z80", IsDevice: true}

	snap := &audit.Snapshot{
		Identity:  "mame_0_262",
		Available: map[string]bool{"bros": true, "neogeo": true, "z80": true, "unlisted": true},
	}
	entries := []archives.Entry{{Stem: "mario", Path: "/roms/mario.zip"}}

	var messages []string
	result := Reconcile(Input{Machines: machines, Entries: entries, Snapshot: snap}, Options{},
		func(msg string) { messages = append(messages, msg) })

	assert.Equal(t, SourceAudit, result.Source)
	assert.ElementsMatch(t, []string{"bros", "unlisted"}, result.IDs())
	assert.Empty(t, result.Virtual, "parent archive on disk suppresses the virtual parent")
	assert.NotEmpty(t, messages)
}

func TestReconcileEmptySnapshotFallsBackToScan(t *testing.T) {
	t.Parallel()

	entries := []archives.Entry{{Stem: "mario", Path: "/roms/mario.zip"}}
	result := Reconcile(Input{
		Machines: marioMachines(),
		Entries:  entries,
		Snapshot: &audit.Snapshot{Identity: "x", Available: map[string]bool{}},
	}, Options{Mode: ModeFast}, nil)

	assert.Equal(t, SourceScan, result.Source)
	assert.ElementsMatch(t, []string{"mario", "bros"}, result.IDs())
}

func TestReconcileSortedByTitle(t *testing.T) {
	t.Parallel()

	machines := map[string]catalog.Machine{
		"b": {ID: "b", Description: "alpha"},
		"a": {ID: "a", Description: "Alpha"},
		"c": {ID: "c", Description: "Zed"},
	}
	entries := []archives.Entry{{Stem: "c"}, {Stem: "b"}, {Stem: "a"}}
	result := Reconcile(Input{Machines: machines, Entries: entries}, Options{}, nil)
	assert.Equal(t, []string{"a", "b", "c"}, result.IDs())
}

func TestVirtualName(t *testing.T) {
	t.Parallel()

	machines := map[string]catalog.Machine{
		"known":  {ID: "known", Description: "Known Parent"},
		"clone1": {ID: "clone1", Description: "Street Hero (Japan, set 2)"},
		"clone0": {ID: "clone0", Description: "Street Hero Turbo (World)"},
		"bare":   {ID: "bare"},
		"paren":  {ID: "paren", Description: "(prototype)"},
		"blankp": {ID: "blankp"},
	}

	tests := []struct {
		name   string
		parent string
		want   string
		clones []Ref
	}{
		{name: "parent description", parent: "known", clones: []Ref{{ID: "clone1"}}, want: "Known Parent"},
		{
			name:   "first clone by id",
			parent: "sthero",
			clones: []Ref{{ID: "clone1"}, {ID: "clone0"}},
			want:   "Street Hero Turbo (Parent ROM)",
		},
		{
			name:   "parent without description",
			parent: "blankp",
			clones: []Ref{{ID: "clone1"}},
			want:   "Street Hero (Parent ROM)",
		},
		{name: "clone without description", parent: "zzz", clones: []Ref{{ID: "bare"}}, want: "ZZZ (Parent ROM)"},
		{name: "only parenthesized text", parent: "pp", clones: []Ref{{ID: "paren"}}, want: "PP (Parent ROM)"},
		{name: "unknown clone", parent: "abc", clones: []Ref{{ID: "nope"}}, want: "ABC (Parent ROM)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, VirtualName(machines, tt.parent, tt.clones))
		})
	}
}

func TestLineage(t *testing.T) {
	t.Parallel()

	machines := map[string]catalog.Machine{
		"p":  {ID: "p"},
		"c2": {ID: "c2", Parent: "p"},
		"c1": {ID: "c1", Parent: "p"},
		"o":  {ID: "o", Parent: "missing"},
	}
	assert.Equal(t, map[string][]string{"p": {"c1", "c2"}, "missing": {"o"}}, Lineage(machines))
}

func TestModeAndSourceStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fast", ModeFast.String())
	assert.Equal(t, "accurate", ModeAccurate.String())
	assert.Equal(t, "audit", SourceAudit.String())
	assert.Equal(t, "scan", SourceScan.String())
}
