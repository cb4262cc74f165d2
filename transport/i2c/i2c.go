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

// Package i2c provides I2C transport implementation for RC522
package i2c

import (
	"fmt"
	"io"
	"sync"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/ZaparooProject/go-rc522/internal/frame"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	// Max clock frequency in fast mode (400 kHz).
	maxClockFreq = 400 * physic.KiloHertz
)

// txer is the part of i2c.Dev the transport needs
type txer interface {
	Tx(w, r []byte) error
}

// Transport implements the rc522.Transport interface for I2C communication.
// The RC522 does not auto-increment register addresses, so a multi-byte read
// of FIFODataReg drains the FIFO.
type Transport struct {
	dev       txer
	bus       io.Closer
	closeErr  error
	busName   string
	closeOnce sync.Once
	mu        sync.Mutex
	addr      uint16
	closed    bool
}

// New creates a new I2C transport. addr is the 7 bit device address, 0 selects 0x28.
func New(busName string, addr uint16) (*Transport, error) {
	if addr == 0 {
		addr = frame.DefaultI2CAddr
	}

	// Initialize host
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}

	// Set maximum frequency
	_ = bus.SetSpeed(maxClockFreq) // Ignore error, continue with default speed

	if busName == "" {
		busName = bus.String()
	}
	return newTransport(&i2c.Dev{Addr: addr, Bus: bus}, bus, busName, addr), nil
}

func newTransport(dev txer, bus io.Closer, busName string, addr uint16) *Transport {
	return &Transport{
		dev:     dev,
		bus:     bus,
		busName: busName,
		addr:    addr,
	}
}

// WriteRegister writes values to reg: register address byte followed by data
func (t *Transport) WriteRegister(reg rc522.Register, values ...byte) error {
	if len(values) == 0 {
		return nil
	}
	w := frame.GetBuffer(len(values) + 1)
	defer frame.PutBuffer(w)
	w[0] = byte(reg) & frame.AddressMask
	copy(w[1:], values)

	if err := t.tx(w, nil); err != nil {
		return rc522.NewTransportError("WriteRegister", t.busName, err)
	}
	return nil
}

// ReadRegister reads a single register
func (t *Transport) ReadRegister(reg rc522.Register) (byte, error) {
	values, err := t.ReadRegisters(reg, 1)
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

// ReadRegisters reads count values from reg
func (t *Transport) ReadRegisters(reg rc522.Register, count int) ([]byte, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: read count %d", rc522.ErrInvalidParameter, count)
	}
	values := make([]byte, count)
	if err := t.tx([]byte{byte(reg) & frame.AddressMask}, values); err != nil {
		return nil, rc522.NewTransportError("ReadRegisters", t.busName, err)
	}
	return values, nil
}

func (t *Transport) tx(w, r []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return rc522.ErrTransportClosed
	}
	if err := t.dev.Tx(w, r); err != nil {
		return fmt.Errorf("I2C transfer to 0x%02X failed: %w", t.addr, err)
	}
	return nil
}

// Close releases the bus
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		t.mu.Unlock()
		if t.bus != nil {
			if err := t.bus.Close(); err != nil {
				t.closeErr = fmt.Errorf("failed to close I2C bus %s: %w", t.busName, err)
			}
		}
	})
	return t.closeErr
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dev != nil && !t.closed
}

// Type returns the transport type
func (*Transport) Type() rc522.TransportType {
	return rc522.TransportI2C
}

// Ensure Transport implements rc522.Transport
var _ rc522.Transport = (*Transport)(nil)
