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
	"errors"
	"fmt"
	"strings"
)

// UID is the identity a PICC reports during selection
type UID struct {
	Bytes []byte
	SAK   byte
}

// Size returns the UID length in bytes (4, 7 or 10)
func (u *UID) Size() int {
	return len(u.Bytes)
}

// Type classifies the card from its SAK
func (u *UID) Type() PICCType {
	return PICCTypeFromSAK(u.SAK)
}

// String returns the UID as upper case hex
func (u *UID) String() string {
	var sb strings.Builder
	for _, b := range u.Bytes {
		_, _ = fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

var cascadeLevels = [3]byte{piccCmdSelCL1, piccCmdSelCL2, piccCmdSelCL3}

// IsNewCardPresent sends REQA and reports whether an idle card answered.
// Halted cards do not answer REQA. A collision still means a card is there.
func (d *Device) IsNewCardPresent() bool {
	for _, r := range []Register{TxModeReg, RxModeReg} {
		if err := d.transport.WriteRegister(r, 0x00); err != nil {
			debugf("failed to reset %s: %v", r, err)
			return false
		}
	}
	if err := d.transport.WriteRegister(ModWidthReg, 0x26); err != nil {
		debugf("failed to reset modulation width: %v", err)
		return false
	}

	_, err := d.RequestA()
	return err == nil || errors.Is(err, ErrCollision)
}

// RequestA sends REQA and returns the ATQA
func (d *Device) RequestA() ([]byte, error) {
	return d.requestOrWakeup(piccCmdREQA)
}

// WakeupA sends WUPA, which also wakes halted cards, and returns the ATQA
func (d *Device) WakeupA() ([]byte, error) {
	return d.requestOrWakeup(piccCmdWUPA)
}

func (d *Device) requestOrWakeup(cmd byte) ([]byte, error) {
	if err := clearBitMask(d.transport, CollReg, collValuesAfter); err != nil {
		return nil, err
	}
	// Short frame: 7 bits
	res, err := d.transceive(exchange{data: []byte{cmd}, validBits: 7, maxBack: 2})
	if err != nil {
		return nil, err
	}
	if len(res.data) != 2 || res.validBits != 0 {
		return nil, fmt.Errorf("%w: ATQA of %d bytes", ErrProtocol, len(res.data))
	}
	return res.data, nil
}

// ReadCardSerial runs anticollision and selection through all cascade levels
// and returns the selected card's UID and SAK. Collisions are not resolved,
// so with two cards in the field selection fails with ErrCollision.
func (d *Device) ReadCardSerial() (*UID, error) {
	if err := clearBitMask(d.transport, CollReg, collValuesAfter); err != nil {
		return nil, err
	}

	uid := make([]byte, 0, 10)
	for level, sel := range cascadeLevels {
		uidCLn, err := d.anticollision(sel)
		if err != nil {
			return nil, fmt.Errorf("anticollision at cascade level %d: %w", level+1, err)
		}

		sak, err := d.selectLevel(sel, uidCLn)
		if err != nil {
			return nil, fmt.Errorf("select at cascade level %d: %w", level+1, err)
		}

		if sak&0x04 == 0 {
			uid = append(uid, uidCLn[:4]...)
			debugf("selected PICC %X with SAK 0x%02X", uid, sak)
			return &UID{Bytes: uid, SAK: sak}, nil
		}

		// UID not complete: this level carried the cascade tag and 3 UID bytes
		if uidCLn[0] != piccCmdCT {
			return nil, fmt.Errorf("%w: cascade bit set without cascade tag", ErrProtocol)
		}
		uid = append(uid, uidCLn[1:4]...)
	}

	return nil, fmt.Errorf("%w: UID incomplete after cascade level 3", ErrProtocol)
}

// anticollision asks for the UID CLn of this cascade level; returns 4 UID bytes plus BCC
func (d *Device) anticollision(sel byte) ([]byte, error) {
	res, err := d.transceive(exchange{data: []byte{sel, piccAnticollNVB}, maxBack: 5})
	if err != nil {
		return nil, err
	}
	if len(res.data) != 5 {
		return nil, fmt.Errorf("%w: anticollision answer of %d bytes", ErrProtocol, len(res.data))
	}
	bcc := res.data[0] ^ res.data[1] ^ res.data[2] ^ res.data[3]
	if bcc != res.data[4] {
		return nil, ErrBCCMismatch
	}
	return res.data, nil
}

// selectLevel selects the card owning uidCLn and returns its SAK
func (d *Device) selectLevel(sel byte, uidCLn []byte) (byte, error) {
	frame := make([]byte, 0, 9)
	frame = append(frame, sel, piccSelectNVB)
	frame = append(frame, uidCLn[:5]...)
	frame = AppendCRCA(frame)

	res, err := d.transceive(exchange{data: frame, maxBack: 3, checkCRC: true})
	if err != nil {
		return 0, err
	}
	if len(res.data) != 3 {
		return 0, fmt.Errorf("%w: SAK answer of %d bytes", ErrProtocol, len(res.data))
	}
	return res.data[0], nil
}

// HaltA puts the selected card into the HALT state. The card acknowledges
// HLTA by staying silent, so a timeout is success.
func (d *Device) HaltA() error {
	frame := AppendCRCA([]byte{piccCmdHLTA, 0x00})
	_, err := d.transceive(exchange{data: frame})
	if errors.Is(err, ErrTimeout) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to halt PICC: %w", err)
	}
	return fmt.Errorf("%w: PICC answered HLTA", ErrProtocol)
}
