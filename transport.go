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
)

// Transport defines register-level access to an RC522 chip.
// This can be implemented by SPI, I2C, or UART backends.
type Transport interface {
	// WriteRegister writes one or more values to the same register
	WriteRegister(reg Register, values ...byte) error

	// ReadRegister reads a single register value
	ReadRegister(reg Register) (byte, error)

	// ReadRegisters reads count values from the same register (FIFO burst)
	ReadRegisters(reg Register, count int) ([]byte, error)

	// Close releases the bus and any pins held by the transport
	Close() error

	// IsConnected returns true if the transport is connected
	IsConnected() bool

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportSPI represents SPI bus transport.
	TransportSPI TransportType = "spi"
	// TransportI2C represents I2C bus transport.
	TransportI2C TransportType = "i2c"
	// TransportUART represents UART/serial transport.
	TransportUART TransportType = "uart"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// setBitMask sets bits in a register with a read-modify-write cycle
func setBitMask(t Transport, reg Register, mask byte) error {
	v, err := t.ReadRegister(reg)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", reg, err)
	}
	if err := t.WriteRegister(reg, v|mask); err != nil {
		return fmt.Errorf("failed to write %s: %w", reg, err)
	}
	return nil
}

// clearBitMask clears bits in a register with a read-modify-write cycle
func clearBitMask(t Transport, reg Register, mask byte) error {
	v, err := t.ReadRegister(reg)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", reg, err)
	}
	if err := t.WriteRegister(reg, v&^mask); err != nil {
		return fmt.Errorf("failed to write %s: %w", reg, err)
	}
	return nil
}

// String returns the register address in hex
func (r Register) String() string {
	return fmt.Sprintf("register 0x%02X", byte(r))
}
