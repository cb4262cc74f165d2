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

package testing

import (
	"bytes"
)

// Common test UIDs
var (
	TestMIFARE1KUID   = []byte{0x04, 0x1A, 0x2B, 0x3C}
	TestMIFARE7BUID   = []byte{0x04, 0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC}
	TestUltralightUID = []byte{0x04, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
)

// DefaultKey is the factory transport key
var DefaultKey = [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

type cardState int

const (
	stateIdle cardState = iota
	stateReady
	stateActive
	stateHalt
)

// VirtualCard represents a simulated ISO/IEC 14443 A card in the reader's field
type VirtualCard struct {
	Blocks    map[byte][]byte // 16 byte blocks by number
	UID       []byte
	KeyA      [6]byte
	KeyB      [6]byte
	SAK       byte
	Present   bool // Whether the card is currently in the field
	ReadFails bool // Authentication works but every read is NAKed
	Collide   bool // A second card answers anticollision at the same time

	state         cardState
	level         int
	authenticated bool
}

// NewVirtualMIFARE1K creates a MIFARE Classic 1K card with factory keys
func NewVirtualMIFARE1K(uid []byte) *VirtualCard {
	if uid == nil {
		uid = TestMIFARE1KUID
	}
	card := &VirtualCard{
		UID:     append([]byte(nil), uid...),
		SAK:     0x08,
		KeyA:    DefaultKey,
		KeyB:    DefaultKey,
		Present: true,
		Blocks:  map[byte][]byte{},
	}

	// Block 0: UID, BCC and manufacturer data
	block0 := make([]byte, 16)
	n := copy(block0, uid)
	if len(uid) == 4 {
		block0[4] = uid[0] ^ uid[1] ^ uid[2] ^ uid[3]
		n++
	}
	block0[n] = card.SAK
	copy(block0[n+1:], []byte{0x04, 0x00, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69})
	card.Blocks[0] = block0
	return card
}

// NewVirtualUltralight creates a MIFARE Ultralight card, which has no Crypto1
func NewVirtualUltralight(uid []byte) *VirtualCard {
	if uid == nil {
		uid = TestUltralightUID
	}
	return &VirtualCard{
		UID:     append([]byte(nil), uid...),
		SAK:     0x00,
		Present: true,
		Blocks:  map[byte][]byte{0: append(append([]byte(nil), uid...), make([]byte, 16-len(uid))...)},
	}
}

// Remove takes the card out of the field
func (c *VirtualCard) Remove() {
	c.Present = false
	c.state = stateIdle
	c.authenticated = false
}

// Insert puts the card back into the field
func (c *VirtualCard) Insert() {
	c.Present = true
	c.state = stateIdle
}

// Halted reports whether the card received HLTA
func (c *VirtualCard) Halted() bool {
	return c.state == stateHalt
}

func (c *VirtualCard) atqa() []byte {
	switch len(c.UID) {
	case 7:
		return []byte{0x44, 0x00}
	case 10:
		return []byte{0x84, 0x00}
	default:
		return []byte{0x04, 0x00}
	}
}

// cascadeLevels returns the UID CLn (4 bytes plus BCC) and SAK of every level
func (c *VirtualCard) cascadeLevels() (levels [][]byte, saks []byte) {
	var parts [][]byte
	switch len(c.UID) {
	case 7:
		parts = [][]byte{append([]byte{0x88}, c.UID[:3]...), c.UID[3:7]}
	case 10:
		parts = [][]byte{
			append([]byte{0x88}, c.UID[:3]...),
			append([]byte{0x88}, c.UID[3:6]...),
			c.UID[6:10],
		}
	default:
		parts = [][]byte{c.UID[:4]}
	}
	for i, p := range parts {
		cln := append(append([]byte(nil), p...), p[0]^p[1]^p[2]^p[3])
		levels = append(levels, cln)
		if i == len(parts)-1 {
			saks = append(saks, c.SAK)
		} else {
			saks = append(saks, 0x04)
		}
	}
	return levels, saks
}

func (c *VirtualCard) checkKey(keyType byte, key, uid4 []byte) bool {
	if !bytes.Equal(uid4, c.UID[len(c.UID)-4:]) {
		return false
	}
	switch keyType {
	case 0x60:
		return bytes.Equal(key, c.KeyA[:])
	case 0x61:
		return bytes.Equal(key, c.KeyB[:])
	default:
		return false
	}
}
