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

// crcAPreset is the ISO/IEC 14443-3 Type A CRC preset (ModeReg CRCPreset = 01)
const crcAPreset = 0x6363

// CRCA calculates the ISO/IEC 14443-3 Type A CRC of data, least significant byte first.
func CRCA(data []byte) [2]byte {
	crc := uint32(crcAPreset)
	for _, b := range data {
		b ^= uint8(crc & 0xFF)
		b ^= b << 4
		b32 := uint32(b)
		crc = (crc >> 8) ^ (b32 << 8) ^ (b32 << 3) ^ (b32 >> 4)
	}
	return [2]byte{byte(crc & 0xFF), byte((crc >> 8) & 0xFF)}
}

// AppendCRCA appends the CRC_A of data to data
func AppendCRCA(data []byte) []byte {
	crc := CRCA(data)
	return append(data, crc[0], crc[1])
}

// CheckCRCA reports whether the last two bytes of frame are the CRC_A of the rest
func CheckCRCA(frame []byte) bool {
	if len(frame) < 2 {
		return false
	}
	n := len(frame) - 2
	crc := CRCA(frame[:n])
	return frame[n] == crc[0] && frame[n+1] == crc[1]
}
