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
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/romset"
)

// Column is a sortable ROM list column.
type Column string

const (
	ColumnTitle        Column = "title"
	ColumnID           Column = "id"
	ColumnYear         Column = "year"
	ColumnManufacturer Column = "manufacturer"
	ColumnStatus       Column = "status"
)

// Columns lists every sortable column.
var Columns = []Column{ColumnTitle, ColumnID, ColumnYear, ColumnManufacturer, ColumnStatus}

// ParseColumn accepts a column name case-insensitively. "romname" is an
// alias for the identifier column.
func ParseColumn(s string) (Column, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "romname" || s == "rom" {
		return ColumnID, nil
	}
	for _, c := range Columns {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown sort column %q", s)
}

// Sort orders rows by column in place. Ties keep their existing order.
// Virtual rows and rows without metadata sort as not working with empty
// year and manufacturer.
func Sort(rows []romset.Rom, machines map[string]catalog.Machine, column Column, descending bool) {
	slices.SortStableFunc(rows, func(a, b romset.Rom) int {
		c := compare(a, b, machines, column)
		if descending {
			return -c
		}
		return c
	})
}

func compare(a, b romset.Rom, machines map[string]catalog.Machine, column Column) int {
	ma, oka := machines[a.ID]
	mb, okb := machines[b.ID]

	switch column {
	case ColumnID:
		return cmp.Compare(strings.ToLower(a.ID), strings.ToLower(b.ID))
	case ColumnYear:
		return cmp.Compare(ma.Year, mb.Year)
	case ColumnManufacturer:
		return cmp.Compare(strings.ToLower(ma.Manufacturer), strings.ToLower(mb.Manufacturer))
	case ColumnStatus:
		return cmp.Compare(status(&ma, oka && !a.IsVirtual), status(&mb, okb && !b.IsVirtual))
	default:
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
}

func status(m *catalog.Machine, known bool) catalog.Status {
	if !known {
		return catalog.StatusNotWorking
	}
	return m.Status()
}
