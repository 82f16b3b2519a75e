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

// Package filters narrows and orders a reconciled ROM list: free text
// search, year, manufacturer and status filters, content categories and
// sort columns.
package filters

import (
	"strings"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/catalog"
)

// Category is a set of coarse content tags.
type Category uint8

const (
	CategoryMahjong Category = 1 << iota
	CategoryAdult
	CategoryCasino
)

// Has reports whether c includes every tag in tag.
func (c Category) Has(tag Category) bool {
	return c&tag == tag && tag != 0
}

// Classifier tags a machine with content categories. Implementations are
// heuristics and may be swapped freely.
type Classifier interface {
	Classify(m *catalog.Machine) Category
}

// KeywordClassifier tags a machine when its lowercased description
// contains any keyword listed for a category.
type KeywordClassifier struct {
	Keywords map[Category][]string
}

// DefaultClassifier returns the built-in keyword lists.
func DefaultClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		Keywords: map[Category][]string{
			CategoryMahjong: {"mahjong", "mah-jong"},
			CategoryAdult:   {"adult", "nude"},
			CategoryCasino:  {"casino", "poker", "slot", "cards"},
		},
	}
}

func (k *KeywordClassifier) Classify(m *catalog.Machine) Category {
	desc := strings.ToLower(m.Description)
	var c Category
	for tag, words := range k.Keywords {
		for _, w := range words {
			if strings.Contains(desc, w) {
				c |= tag
				break
			}
		}
	}
	return c
}
