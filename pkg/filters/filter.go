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
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/romset"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StatusFilter restricts the list to one emulation status.
type StatusFilter string

const (
	StatusAll        StatusFilter = "all"
	StatusWorking    StatusFilter = "working"
	StatusImperfect  StatusFilter = "imperfect"
	StatusNotWorking StatusFilter = "not_working"
)

// Settings are the user's filter choices. Zero values filter nothing.
type Settings struct {
	Search        string       `toml:"search,omitempty"`
	YearFrom      string       `toml:"year_from,omitempty"`
	YearTo        string       `toml:"year_to,omitempty"`
	Manufacturer  string       `toml:"manufacturer,omitempty"`
	Status        StatusFilter `toml:"status,omitempty"`
	HideNonGames  bool         `toml:"hide_non_games"`
	HideMahjong   bool         `toml:"hide_mahjong"`
	HideAdult     bool         `toml:"hide_adult"`
	HideCasino    bool         `toml:"hide_casino"`
	FavoritesOnly bool         `toml:"favorites_only"`
}

// Filter matches ROM list rows against Settings.
type Filter struct {
	machines   map[string]catalog.Machine
	favorites  map[string]bool
	classifier Classifier
	search     string
	hide       Category
	settings   Settings
	yearFrom   int
	yearTo     int
	hasFrom    bool
	hasTo      bool
}

// Option configures a Filter.
type Option func(*Filter)

// WithClassifier replaces DefaultClassifier.
func WithClassifier(c Classifier) Option {
	return func(f *Filter) {
		f.classifier = c
	}
}

// WithFavorites sets the identifiers FavoritesOnly keeps.
func WithFavorites(ids []string) Option {
	return func(f *Filter) {
		f.favorites = make(map[string]bool, len(ids))
		for _, id := range ids {
			f.favorites[id] = true
		}
	}
}

// New returns a Filter for settings over machines.
func New(settings Settings, machines map[string]catalog.Machine, opts ...Option) *Filter {
	f := &Filter{
		settings:   settings,
		machines:   machines,
		classifier: DefaultClassifier(),
		search:     Fold(strings.TrimSpace(settings.Search)),
	}
	if y, err := strconv.Atoi(strings.TrimSpace(settings.YearFrom)); err == nil {
		f.yearFrom, f.hasFrom = y, true
	}
	if y, err := strconv.Atoi(strings.TrimSpace(settings.YearTo)); err == nil {
		f.yearTo, f.hasTo = y, true
	}
	if settings.HideMahjong {
		f.hide |= CategoryMahjong
	}
	if settings.HideAdult {
		f.hide |= CategoryAdult
	}
	if settings.HideCasino {
		f.hide |= CategoryCasino
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Match reports whether a row passes every filter. Rows without catalog
// metadata are only subject to the search and favourites filters.
func (f *Filter) Match(r romset.Rom) bool {
	if f.settings.FavoritesOnly && !f.favorites[r.ID] {
		return false
	}

	if f.search != "" &&
		!strings.Contains(Fold(r.Name), f.search) &&
		!strings.Contains(Fold(r.ID), f.search) {
		return false
	}

	m, ok := f.machines[r.ID]
	if !ok {
		return true
	}

	if f.settings.HideNonGames && !m.IsGame() {
		return false
	}
	if !f.matchStatus(&m) {
		return false
	}
	if !f.matchYear(m.Year) {
		return false
	}
	if f.settings.Manufacturer != "" && m.Manufacturer != f.settings.Manufacturer {
		return false
	}
	if f.hide != 0 && f.classifier != nil && f.classifier.Classify(&m)&f.hide != 0 {
		return false
	}
	return true
}

func (f *Filter) matchStatus(m *catalog.Machine) bool {
	switch f.settings.Status {
	case StatusWorking:
		return m.Status() == catalog.StatusGood
	case StatusImperfect:
		return m.Status() == catalog.StatusImperfect
	case StatusNotWorking:
		return m.Status() == catalog.StatusNotWorking
	default:
		return true
	}
}

// matchYear passes years that do not parse, such as "198?".
func (f *Filter) matchYear(year string) bool {
	if !f.hasFrom && !f.hasTo {
		return true
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return true
	}
	if f.hasFrom && y < f.yearFrom {
		return false
	}
	return !f.hasTo || y <= f.yearTo
}

// Fold lowercases s and strips diacritics for search comparison.
func Fold(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	return strings.ToLower(s)
}

// Manufacturers returns the distinct manufacturers of games in machines,
// sorted case-insensitively.
func Manufacturers(machines map[string]catalog.Machine) []string {
	seen := make(map[string]bool)
	var out []string
	for id := range machines {
		m := machines[id]
		if m.Manufacturer == "" || !m.IsGame() || seen[m.Manufacturer] {
			continue
		}
		seen[m.Manufacturer] = true
		out = append(out, m.Manufacturer)
	}
	slices.SortFunc(out, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return out
}
