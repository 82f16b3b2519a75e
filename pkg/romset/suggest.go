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
	"cmp"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"
)

// MinSuggestSimilarity is the Jaro-Winkler score a candidate needs to be
// suggested.
const MinSuggestSimilarity = 0.8

// Suggestion is a near match for an unknown identifier.
type Suggestion struct {
	ID         string
	Name       string
	Similarity float32
}

// Suggest returns up to limit entries whose identifier or title is close
// to query, best first.
func Suggest(result *Result, query string, limit int) []Suggestion {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	var matches []Suggestion
	for i := range result.Roms {
		r := result.Roms[i]
		score := max(
			edlib.JaroWinklerSimilarity(query, r.ID),
			edlib.JaroWinklerSimilarity(query, strings.ToLower(r.Name)),
		)
		if score >= MinSuggestSimilarity {
			matches = append(matches, Suggestion{ID: r.ID, Name: r.Name, Similarity: score})
		}
	}

	slices.SortFunc(matches, func(a, b Suggestion) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
