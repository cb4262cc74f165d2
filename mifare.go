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

package rc522

import (
	"fmt"
	"strings"
)

// MIFARE memory structure
const (
	MIFAREBlockSize = 16 // 16 bytes per block
	MIFAREKeySize   = 6  // 6 bytes per key
	// MIFAREReadBufferSize holds one block plus its CRC_A
	MIFAREReadBufferSize = MIFAREBlockSize + 2
)

// KeyType selects which sector key Crypto1 authenticates with
type KeyType byte

// Key types
const (
	MIFAREKeyA KeyType = piccCmdMFAuthA
	MIFAREKeyB KeyType = piccCmdMFAuthB
)

// String returns "A" or "B"
func (k KeyType) String() string {
	switch k {
	case MIFAREKeyA:
		return "A"
	case MIFAREKeyB:
		return "B"
	default:
		return fmt.Sprintf("0x%02X", byte(k))
	}
}

// Key is a MIFARE Classic sector key
type Key [MIFAREKeySize]byte

// String returns the key as space separated lower case hex
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, b := range k {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, " ")
}

// Authenticate starts a Crypto1 session for the sector holding block.
// The PCD is fed the last 4 UID bytes, which is what MIFARE Classic
// cards with 7 byte UIDs expect as well.
func (d *Device) Authenticate(keyType KeyType, block byte, key Key, uid *UID) error {
	if keyType != MIFAREKeyA && keyType != MIFAREKeyB {
		return fmt.Errorf("%w: key type %s", ErrInvalidParameter, keyType)
	}
	if uid == nil || uid.Size() < 4 {
		return fmt.Errorf("%w: UID must have at least 4 bytes", ErrInvalidParameter)
	}

	cmd := make([]byte, 0, 12)
	cmd = append(cmd, byte(keyType), block)
	cmd = append(cmd, key[:]...)
	cmd = append(cmd, uid.Bytes[uid.Size()-4:]...)
	defer func() {
		// SECURITY: Zero key copy after use
		for i := range cmd {
			cmd[i] = 0
		}
	}()

	if _, err := d.communicate(exchange{command: pcdMFAuthent, waitIRq: irqIdle, data: cmd}); err != nil {
		return fmt.Errorf("%w: block %d with key %s: %w", ErrAuthFailed, block, keyType, err)
	}

	status, err := d.transport.ReadRegister(Status2Reg)
	if err != nil {
		return fmt.Errorf("failed to read crypto state: %w", err)
	}
	if status&status2Crypto1 == 0 {
		return fmt.Errorf("%w: block %d with key %s: Crypto1 not enabled", ErrAuthFailed, block, keyType)
	}
	return nil
}

// ReadBlock reads a 16 byte block into buf, which must have room for the
// block and its CRC_A (MIFAREReadBufferSize). It returns the number of
// bytes written to buf.
func (d *Device) ReadBlock(block byte, buf []byte) (int, error) {
	if len(buf) < MIFAREReadBufferSize {
		return 0, fmt.Errorf("%w: read buffer of %d bytes", ErrNoRoom, len(buf))
	}

	frame := AppendCRCA([]byte{piccCmdMFRead, block})
	res, err := d.transceive(exchange{data: frame, maxBack: len(buf), checkCRC: true})
	if err != nil {
		return 0, fmt.Errorf("failed to read block %d: %w", block, err)
	}

	return copy(buf, res.data), nil
}

// StopCrypto1 leaves the authenticated state. It must be called after
// communicating with an authenticated card, otherwise the PCD cannot talk
// to new cards.
func (d *Device) StopCrypto1() error {
	if err := clearBitMask(d.transport, Status2Reg, status2Crypto1); err != nil {
		return fmt.Errorf("failed to stop Crypto1: %w", err)
	}
	return nil
}
