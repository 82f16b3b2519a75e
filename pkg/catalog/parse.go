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
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrNoMachines is returned when the input contains no machine blocks.
var ErrNoMachines = errors.New("no machine blocks found in machine list")

var machineOpen = []byte("<machine ")

type machineXML struct {
	Name          string      `xml:"name,attr"`
	CloneOf       *string     `xml:"cloneof,attr"`
	RomOf         *string     `xml:"romof,attr"`
	IsDevice      string      `xml:"isdevice,attr"`
	IsBIOS        string      `xml:"isbios,attr"`
	IsMechanical  string      `xml:"ismechanical,attr"`
	Runnable      string      `xml:"runnable,attr"`
	Descriptions  []string    `xml:"description"`
	Years         []string    `xml:"year"`
	Manufacturers []string    `xml:"manufacturer"`
	Inputs        []inputXML  `xml:"input"`
	Drivers       []driverXML `xml:"driver"`
}

type inputXML struct {
	Controls []controlXML `xml:"control"`
}

type controlXML struct {
	Type string `xml:"type,attr"`
}

type driverXML struct {
	Status    string `xml:"status,attr"`
	Emulation string `xml:"emulation,attr"`
}

// Parse reads a machine list and returns its machines keyed by identifier.
func Parse(ctx context.Context, r io.Reader) (map[string]Machine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine list: %w", err)
	}
	return ParseBytes(ctx, data)
}

// ParseBytes splits data into machine blocks and decodes them in parallel.
// Blocks that fail to decode are dropped; only input with no blocks at all
// is an error. When an identifier appears twice the first block wins.
func ParseBytes(ctx context.Context, data []byte) (map[string]Machine, error) {
	blocks := splitBlocks(data)
	if len(blocks) == 0 {
		return nil, ErrNoMachines
	}

	results := make([]*Machine, len(blocks))
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(blocks) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(blocks); start += chunk {
		end := min(start+chunk, len(blocks))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err //nolint:wrapcheck // context error
				}
				m, err := decodeBlock(blocks[i])
				if err != nil {
					log.Debug().Err(err).Int("block", i).Msg("dropping unparseable machine block")
					continue
				}
				results[i] = m
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("machine list parse interrupted: %w", err)
	}

	machines := make(map[string]Machine, len(blocks))
	dropped := 0
	for _, m := range results {
		if m == nil {
			dropped++
			continue
		}
		if _, ok := machines[m.ID]; ok {
			continue
		}
		machines[m.ID] = *m
	}

	log.Info().
		Int("blocks", len(blocks)).
		Int("machines", len(machines)).
		Int("dropped", dropped).
		Msg("parsed machine list")

	return machines, nil
}

// splitBlocks returns each machine element, opening tag included. Text
// before the first opening tag is discarded.
func splitBlocks(data []byte) [][]byte {
	idx := bytes.Index(data, machineOpen)
	if idx < 0 {
		return nil
	}
	data = data[idx:]

	var blocks [][]byte
	for len(data) > 0 {
		next := bytes.Index(data[len(machineOpen):], machineOpen)
		if next < 0 {
			blocks = append(blocks, data)
			break
		}
		end := next + len(machineOpen)
		blocks = append(blocks, data[:end])
		data = data[end:]
	}
	return blocks
}

func decodeBlock(block []byte) (*Machine, error) {
	dec := xml.NewDecoder(bytes.NewReader(block))
	dec.Strict = false

	var raw machineXML
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("no machine element: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if err := dec.DecodeElement(&raw, &start); err != nil {
			return nil, fmt.Errorf("failed to decode machine element: %w", err)
		}
		break
	}

	if raw.Name == "" {
		return nil, errors.New("machine element has no name")
	}

	m := &Machine{
		ID:           raw.Name,
		Description:  first(raw.Descriptions),
		Year:         first(raw.Years),
		Manufacturer: first(raw.Manufacturers),
		IsDevice:     raw.IsDevice == "yes",
		IsBIOS:       raw.IsBIOS == "yes",
		IsMechanical: raw.IsMechanical == "yes",
		NotRunnable:  raw.Runnable == "no",
	}

	switch {
	case raw.CloneOf != nil:
		m.Parent = *raw.CloneOf
	case raw.RomOf != nil:
		m.Parent = *raw.RomOf
	}

	for _, in := range raw.Inputs {
		if len(in.Controls) > 0 {
			m.ControlType = in.Controls[0].Type
			break
		}
	}

	if len(raw.Drivers) > 0 {
		m.DriverStatus = DriverStatus(raw.Drivers[0].Status)
		m.EmulationStatus = raw.Drivers[0].Emulation
	}

	return m, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
