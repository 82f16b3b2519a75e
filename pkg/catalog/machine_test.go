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

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMachineStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		machine Machine
		want    Status
	}{
		{name: "driver good", machine: Machine{DriverStatus: DriverGood, NotRunnable: true}, want: StatusGood},
		{name: "driver imperfect", machine: Machine{DriverStatus: DriverImperfect}, want: StatusImperfect},
		{name: "driver preliminary", machine: Machine{DriverStatus: DriverPreliminary}, want: StatusPreliminary},
		{name: "not runnable", machine: Machine{NotRunnable: true}, want: StatusNotWorking},
		{name: "mechanical", machine: Machine{IsMechanical: true}, want: StatusImperfect},
		{name: "imperfect emulation", machine: Machine{EmulationStatus: "imperfect"}, want: StatusImperfect},
		{name: "no information", machine: Machine{}, want: StatusGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.machine.Status())
		})
	}
}

func TestTitle(t *testing.T) {
	t.Parallel()

	machines := map[string]Machine{
		"pacman": {ID: "pacman", Description: "Pac-Man"},
		"blank":  {ID: "blank"},
	}
	assert.Equal(t, "Pac-Man", Title(machines, "pacman"))
	assert.Equal(t, "blank", Title(machines, "blank"))
	assert.Equal(t, "missing", Title(machines, "missing"))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	machines := map[string]Machine{
		"pacman":  {ID: "pacman", DriverStatus: DriverGood},
		"puckman": {ID: "puckman", Parent: "pacman", DriverStatus: DriverImperfect},
		"broken":  {ID: "broken", NotRunnable: true},
		"pinball": {ID: "pinball", IsMechanical: true},
		"neogeo":  {ID: "neogeo", IsBIOS: true},
		"z80":     {ID: "z80", IsDevice: true},
	}

	got := Summarize(machines)
	assert.Equal(t, Stats{Total: 4, Working: 2, Parents: 3, Clones: 1}, got)
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "good", StatusGood.String())
	assert.Equal(t, "not working", StatusNotWorking.String())
	assert.Equal(t, "unknown", Status(99).String())
}
