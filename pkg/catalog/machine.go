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

// Package catalog parses the emulator's machine list into per-machine
// metadata: titles, parent/clone lineage and device/BIOS flags.
package catalog

// DriverStatus is the emulation quality the emulator reports for a driver.
type DriverStatus string

const (
	DriverGood        DriverStatus = "good"
	DriverImperfect   DriverStatus = "imperfect"
	DriverPreliminary DriverStatus = "preliminary"
)

// Status is the coarse playability shown next to a machine.
type Status int

const (
	StatusGood Status = iota
	StatusImperfect
	StatusPreliminary
	StatusNotWorking
)

func (s Status) String() string {
	switch s {
	case StatusGood:
		return "good"
	case StatusImperfect:
		return "imperfect"
	case StatusPreliminary:
		return "preliminary"
	case StatusNotWorking:
		return "not working"
	default:
		return "unknown"
	}
}

// Machine is the metadata for one machine identifier.
type Machine struct {
	ID              string
	Description     string
	Year            string
	Manufacturer    string
	ControlType     string
	Parent          string
	DriverStatus    DriverStatus
	EmulationStatus string
	IsDevice        bool
	IsBIOS          bool
	IsMechanical    bool
	// NotRunnable is set when the machine declares runnable="no". Use
	// Playable for "can this be launched as a game".
	NotRunnable bool
}

// IsClone reports whether the machine references a parent.
func (m *Machine) IsClone() bool {
	return m.Parent != ""
}

// IsGame reports whether the machine is neither a device nor a BIOS.
func (m *Machine) IsGame() bool {
	return !m.IsDevice && !m.IsBIOS
}

// Playable reports whether the machine is a game that declared itself
// runnable.
func (m *Machine) Playable() bool {
	return m.IsGame() && !m.NotRunnable
}

// Status derives the display status. The driver status wins when present.
func (m *Machine) Status() Status {
	switch m.DriverStatus {
	case DriverGood:
		return StatusGood
	case DriverImperfect:
		return StatusImperfect
	case DriverPreliminary:
		return StatusPreliminary
	}

	switch {
	case m.NotRunnable:
		return StatusNotWorking
	case m.IsMechanical || m.EmulationStatus == string(DriverImperfect):
		return StatusImperfect
	default:
		return StatusGood
	}
}

// Title returns the description, or the identifier when there is none.
func Title(machines map[string]Machine, id string) string {
	if m, ok := machines[id]; ok && m.Description != "" {
		return m.Description
	}
	return id
}

// Stats summarises a catalog.
type Stats struct {
	Total   int
	Working int
	Parents int
	Clones  int
}

// Summarize counts games (non device, non BIOS), working games, and the
// parent/clone split among them. Working means playable, not mechanical
// and not reported as not working.
func Summarize(machines map[string]Machine) Stats {
	var s Stats
	for id := range machines {
		m := machines[id]
		if !m.IsGame() {
			continue
		}
		s.Total++
		if m.Playable() && !m.IsMechanical && m.Status() != StatusNotWorking {
			s.Working++
		}
		if m.IsClone() {
			s.Clones++
		} else {
			s.Parents++
		}
	}
	return s
}
