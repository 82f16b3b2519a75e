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

// Package audit keeps the per-emulator cache of which sets passed ROM
// verification and rebuilds it by running the emulator's verifier.
package audit

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode"

	"gopkg.in/ini.v1"
)

// Section is the INI section that lists verified sets.
const Section = "AVAILABLE"

func init() {
	// Availability files are written as "id = 1", one per line.
	ini.PrettyFormat = false
	ini.PrettyEqual = true
}

// Snapshot is the verified availability for one emulator build. A
// snapshot never mixes results from different identities.
type Snapshot struct {
	Updated   time.Time
	Available map[string]bool
	Identity  string
}

// Empty reports whether the snapshot lists no available sets.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Available) == 0
}

// IDs returns the available set identifiers in lexical order.
func (s *Snapshot) IDs() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.Available))
}

// Identity derives the cache key for an emulator build from its name and
// version string. Anything other than letters, digits, '-' and '_' becomes
// '_' and the result is lowercased.
func Identity(name, version string) string {
	raw := name + "_" + version
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune('_')
	}
	return sb.String()
}

// Parse reads an availability file. Only keys in the AVAILABLE section
// whose value is exactly "1" count; a file without the section yields an
// empty set.
func Parse(data []byte) (map[string]bool, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		SkipUnrecognizableLines: true,
		IgnoreInlineComment:     true,
		AllowBooleanKeys:        true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse availability file: %w", err)
	}

	available := make(map[string]bool)
	sec, err := cfg.GetSection(Section)
	if err != nil {
		return available, nil //nolint:nilerr // missing section means nothing verified
	}
	for _, key := range sec.Keys() {
		if strings.TrimSpace(key.Value()) == "1" {
			available[key.Name()] = true
		}
	}
	return available, nil
}

// Encode writes available as an availability file with keys in lexical
// order.
func Encode(w io.Writer, available map[string]bool) error {
	cfg := ini.Empty()
	sec, err := cfg.NewSection(Section)
	if err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	for _, id := range slices.Sorted(maps.Keys(available)) {
		if !available[id] {
			continue
		}
		if _, err := sec.NewKey(id, "1"); err != nil {
			return fmt.Errorf("failed to add %s: %w", id, err)
		}
	}
	if _, err := cfg.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write availability file: %w", err)
	}
	return nil
}
