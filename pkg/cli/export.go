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

package cli

import (
	"fmt"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/romset"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/service"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// ExportRow is one line of the CSV export.
type ExportRow struct {
	ID           string `csv:"id"`
	Title        string `csv:"title"`
	Parent       string `csv:"parent"`
	Year         string `csv:"year"`
	Manufacturer string `csv:"manufacturer"`
	Status       string `csv:"status"`
	Archive      string `csv:"archive"`
	Clone        bool   `csv:"clone"`
	Virtual      bool   `csv:"virtual"`
}

// ExportRows builds the CSV rows for rows.
func ExportRows(snap *service.Snapshot, rows []romset.Rom) []*ExportRow {
	out := make([]*ExportRow, 0, len(rows))
	for _, r := range rows {
		m, known := snap.Machines[r.ID]
		status := "not working"
		if known && !r.IsVirtual {
			status = m.Status().String()
		}
		row := &ExportRow{
			ID:           r.ID,
			Title:        r.Name,
			Parent:       r.Parent,
			Year:         m.Year,
			Manufacturer: m.Manufacturer,
			Status:       status,
			Clone:        r.IsClone,
			Virtual:      r.IsVirtual,
		}
		if snap.Result != nil {
			row.Archive = snap.Result.OnDisk[r.ID]
		}
		out = append(out, row)
	}
	return out
}

// Export writes rows to path as CSV.
func (a *App) Export(snap *service.Snapshot, rows []romset.Rom, path string) error {
	f, err := a.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close export file")
		}
	}()

	if err := gocsv.Marshal(ExportRows(snap, rows), f); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	_, _ = fmt.Fprintf(a.out, "Exported %d games to %s\n", len(rows), path)
	return nil
}
