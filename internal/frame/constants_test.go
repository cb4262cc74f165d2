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

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSPIAddress(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		reg       byte
		wantWrite byte
		wantRead  byte
	}{
		{name: "CommandReg", reg: 0x01, wantWrite: 0x02, wantRead: 0x82},
		{name: "FIFODataReg", reg: 0x09, wantWrite: 0x12, wantRead: 0x92},
		{name: "VersionReg", reg: 0x37, wantWrite: 0x6E, wantRead: 0xEE},
		{name: "highest register", reg: 0x3F, wantWrite: 0x7E, wantRead: 0xFE},
		{name: "out of range bits dropped", reg: 0x41, wantWrite: 0x02, wantRead: 0x82},
	}

	for _, tt := range tests {
		tt := tt // capture loop variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantWrite, SPIWriteAddress(tt.reg))
			assert.Equal(t, tt.wantRead, SPIReadAddress(tt.reg))
		})
	}
}

func TestUARTAddress(t *testing.T) {
	t.Parallel()
	assert.Equal(t, byte(0x37), UARTWriteAddress(0x37))
	assert.Equal(t, byte(0xB7), UARTReadAddress(0x37))
	assert.Equal(t, byte(0x01), UARTWriteAddress(0x41))
}

func TestSPIWriteFrame(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 8)
	got := SPIWriteFrame(buf, 0x09, []byte{0x26, 0x52})
	assert.Equal(t, []byte{0x12, 0x26, 0x52}, got)
}

func TestSPIReadFrame(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 8)
	got := SPIReadFrame(buf, 0x09, 3)
	assert.Equal(t, []byte{0x92, 0x92, 0x92, 0x00}, got)
}

func TestBufferPool(t *testing.T) {
	t.Parallel()

	buf := GetBuffer(10)
	assert.Len(t, buf, 10)
	for i := range buf {
		buf[i] = 0xAA
	}
	PutBuffer(buf)

	again := GetBuffer(5)
	assert.Len(t, again, 5)
	assert.Equal(t, make([]byte, 5), again, "pooled buffers must come back zeroed")
	PutBuffer(again)

	big := GetBuffer(FIFOSize * 2)
	assert.Len(t, big, FIFOSize*2)
	PutBuffer(big) // ignored, wrong capacity
}
