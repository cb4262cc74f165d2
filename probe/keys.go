// go-rc522
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-rc522.
//
// go-rc522 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-rc522 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-rc522; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package probe

import (
	rc522 "github.com/ZaparooProject/go-rc522"
)

// KeyTable is an ordered list of candidate sector keys
type KeyTable []rc522.Key

// defaultKeys are the well known factory and public MIFARE Classic keys
var defaultKeys = KeyTable{
	{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, // factory default
	{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5},
	{0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5},
	{0x4D, 0x3A, 0x99, 0xC3, 0x51, 0xDD},
	{0x1A, 0x98, 0x2C, 0x7E, 0x45, 0x9A},
	{0xD3, 0xF7, 0xD3, 0xF7, 0xD3, 0xF7},
	{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
}

// DefaultKeys returns a copy of the default key table
func DefaultKeys() KeyTable {
	return append(KeyTable(nil), defaultKeys...)
}
