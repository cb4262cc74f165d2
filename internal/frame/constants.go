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

// Package frame provides the wire encoding of RC522 register accesses
package frame

// Register address encoding
const (
	// ReadBit marks a read access in SPI and UART address bytes
	ReadBit = 0x80
	// AddressMask keeps the 6 bit register address
	AddressMask = 0x3F
	// SPIAddressMask keeps the shifted address bits of an SPI address byte (LSB is reserved 0)
	SPIAddressMask = 0x7E
)

// Bus limits
const (
	FIFOSize        = 64   // RC522 FIFO depth in bytes
	DefaultI2CAddr  = 0x28 // 7 bit address with EA pin low and ADR pins low
	DefaultUARTBaud = 9600 // SerialSpeedReg reset value
)

// SPIWriteAddress returns the SPI address byte for writing reg
func SPIWriteAddress(reg byte) byte {
	return (reg << 1) & SPIAddressMask
}

// SPIReadAddress returns the SPI address byte for reading reg
func SPIReadAddress(reg byte) byte {
	return ReadBit | SPIWriteAddress(reg)
}

// UARTWriteAddress returns the UART address byte for writing reg
func UARTWriteAddress(reg byte) byte {
	return reg & AddressMask
}

// UARTReadAddress returns the UART address byte for reading reg
func UARTReadAddress(reg byte) byte {
	return ReadBit | UARTWriteAddress(reg)
}

// SPIWriteFrame builds the MOSI bytes for writing values to reg into buf.
// buf must hold len(values)+1 bytes.
func SPIWriteFrame(buf []byte, reg byte, values []byte) []byte {
	buf = buf[:len(values)+1]
	buf[0] = SPIWriteAddress(reg)
	copy(buf[1:], values)
	return buf
}

// SPIReadFrame builds the MOSI bytes for reading count values from reg into buf.
// The address is repeated for every value and the transfer ends with 0x00, so
// the MISO bytes at index 1..count carry the data. buf must hold count+1 bytes.
func SPIReadFrame(buf []byte, reg byte, count int) []byte {
	buf = buf[:count+1]
	addr := SPIReadAddress(reg)
	for i := 0; i < count; i++ {
		buf[i] = addr
	}
	buf[count] = 0x00
	return buf
}
