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
	"github.com/ZaparooProject/zaparoo-arcade/pkg/archives"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/catalog"
	"github.com/rs/zerolog/log"
)

// Classification is the layout of a ROM collection.
type Classification int

const (
	Unknown Classification = iota
	Merged
	Split
	NonMerged
)

func (c Classification) String() string {
	switch c {
	case Merged:
		return "merged"
	case Split:
		return "split"
	case NonMerged:
		return "non-merged"
	default:
		return "unknown"
	}
}

const (
	// SampleSize is the most archives Classify inspects.
	SampleSize = 50
	// SplitRatio is the share of standalone clone archives above which a
	// collection is split rather than non-merged.
	SplitRatio = 0.3
)

// DirScanner lists the archives in one directory.
type DirScanner interface {
	ScanDir(dir string) ([]archives.Entry, error)
}

// Classify samples archives across dirs, in order, and infers the set
// layout from how many of them are standalone clone archives.
func Classify(scanner DirScanner, dirs []string, machines map[string]catalog.Machine) Classification {
	sample := make([]archives.Entry, 0, SampleSize)
	for _, dir := range dirs {
		entries, err := scanner.ScanDir(dir)
		if err != nil {
			log.Debug().Err(err).Str("dir", dir).Msg("skipping directory for classification")
			continue
		}
		for _, e := range entries {
			if len(sample) == SampleSize {
				break
			}
			sample = append(sample, e)
		}
		if len(sample) == SampleSize {
			break
		}
	}
	return ClassifyEntries(sample, machines)
}

// ClassifyEntries classifies an already sampled set of archives.
func ClassifyEntries(sample []archives.Entry, machines map[string]catalog.Machine) Classification {
	if len(sample) == 0 {
		return Unknown
	}

	clones := 0
	for _, e := range sample {
		if m, ok := machines[e.Stem]; ok && m.Parent != "" {
			clones++
		}
	}

	switch {
	case clones == 0:
		return Merged
	case float64(clones)/float64(len(sample)) > SplitRatio:
		return Split
	default:
		return NonMerged
	}
}
