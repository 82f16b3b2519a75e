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

package helpers

import (
	"github.com/ZaparooProject/zaparoo-arcade/pkg/testing/mocks"
	"github.com/stretchr/testify/mock"
)

// NewMockCommandExecutor returns a MockCommandExecutor whose calls all
// succeed with empty output unless a test registers its own expectation
// first. Expectations are matched in registration order, so specific On()
// calls must be made on a fresh mock or before these defaults are added:
//
//	exec := &mocks.MockCommandExecutor{}
//	exec.On("OutputWithOptions", mock.Anything, mock.Anything, "mame", []string{"-version"}).
//		Return([]byte("0.262 (mame0262)\n"), nil)
func NewMockCommandExecutor() *mocks.MockCommandExecutor {
	exec := &mocks.MockCommandExecutor{}
	exec.On("Output", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return([]byte{}, nil).Maybe()
	exec.On(
		"OutputWithOptions", mock.Anything, mock.Anything, mock.AnythingOfType("string"), mock.Anything,
	).Return([]byte{}, nil).Maybe()
	exec.On(
		"StartWithOptions", mock.Anything, mock.Anything, mock.AnythingOfType("string"), mock.Anything,
	).Return(nil).Maybe()
	return exec
}
