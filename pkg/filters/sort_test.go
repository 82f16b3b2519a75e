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

package filters

import (
	"testing"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/romset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumn(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Column{
		"title": ColumnTitle, " Year ": ColumnYear, "romname": ColumnID, "id": ColumnID, "STATUS": ColumnStatus,
	} {
		got, err := ParseColumn(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseColumn("playcount")
	require.Error(t, err)
}

func TestSort(t *testing.T) {
	t.Parallel()

	machines := testMachines()

	tests := []struct {
		column     Column
		want       []string
		descending bool
	}{
		{column: ColumnTitle, want: []string{"broken", "mjkoi", "pacman", "pinball", "pokemon"}},
		{column: ColumnID, descending: true, want: []string{"pokemon", "pinball", "pacman", "mjkoi", "broken"}},
		{column: ColumnYear, want: []string{"pinball", "pacman", "mjkoi", "broken", "pokemon"}},
		{column: ColumnManufacturer, want: []string{"broken", "pinball", "mjkoi", "pacman", "pokemon"}},
		{column: ColumnStatus, want: []string{"pacman", "mjkoi", "pokemon", "pinball", "broken"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.column), func(t *testing.T) {
			t.Parallel()

			rows := rowsFor(machines, "pacman", "mjkoi", "broken", "pinball", "pokemon")
			Sort(rows, machines, tt.column, tt.descending)

			got := make([]string, len(rows))
			for i, r := range rows {
				got[i] = r.ID
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortVirtualRowsAsNotWorking(t *testing.T) {
	t.Parallel()

	machines := testMachines()
	rows := []romset.Rom{
		{ID: "pacman", Name: "Pac-Man", IsVirtual: true},
		{ID: "mjkoi", Name: "Mahjong Koi"},
	}
	Sort(rows, machines, ColumnStatus, false)
	assert.Equal(t, "mjkoi", rows[0].ID)
}
