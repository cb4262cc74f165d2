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

// Package uart provides UART transport implementation for RC522
package uart

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/ZaparooProject/go-rc522/internal/frame"
	"github.com/ZaparooProject/go-rc522/internal/transport"
	"go.bug.st/serial"
)

const (
	// Per-byte read timeout handed to the serial driver
	readPollTimeout = 10 * time.Millisecond
	// How long to wait for a single byte from the chip
	byteTimeout = 50 * time.Millisecond
	// Attempts for a register write whose address echo came back wrong
	echoRetries = 2
)

// port is the part of serial.Port the transport needs
type port interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
}

// Transport implements the rc522.Transport interface for UART communication.
// Every register access is one address byte; writes are echoed by the chip.
type Transport struct {
	port      port
	closeErr  error
	portName  string
	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
}

// New opens portName at baud. A baud of 0 selects 9600, the chip's reset speed.
func New(portName string, baud int) (*Transport, error) {
	if baud <= 0 {
		baud = frame.DefaultUARTBaud
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open UART port %s: %w", portName, err)
	}
	if err := p.SetReadTimeout(readPollTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to set UART read timeout: %w", err)
	}
	if err := p.ResetInputBuffer(); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to reset UART input buffer: %w", err)
	}

	return newTransport(p, portName), nil
}

func newTransport(p port, portName string) *Transport {
	return &Transport{port: p, portName: portName}
}

// WriteRegister writes each value to reg as an address/data pair and checks the echo
func (t *Transport) WriteRegister(reg rc522.Register, values ...byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return rc522.ErrTransportClosed
	}

	addr := frame.UARTWriteAddress(byte(reg))
	for _, v := range values {
		if err := t.writeOne(addr, v); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transport) writeOne(addr, value byte) error {
	cfg := transport.RetryConfig{
		Description: "WriteRegister",
		Port:        t.portName,
		MaxRetries:  echoRetries,
		OnRetry:     t.port.ResetInputBuffer,
	}
	_, err := transport.WithRetry(cfg, func() (struct{}, bool, error) {
		if _, err := t.port.Write([]byte{addr, value}); err != nil {
			return struct{}{}, false, rc522.NewTransportError("WriteRegister", t.portName, err)
		}
		echo, err := t.readByte()
		if err != nil {
			return struct{}{}, false, err
		}
		if echo != addr {
			return struct{}{}, true, nil
		}
		return struct{}{}, false, nil
	})
	var te *rc522.TransportError
	if errors.As(err, &te) && errors.Is(err, rc522.ErrTransportTimeout) && te.Op == cfg.Description {
		return rc522.NewTransportError("WriteRegister", t.portName,
			fmt.Errorf("%w: register 0x%02X", rc522.ErrEchoMismatch, addr))
	}
	return err
}

// ReadRegister reads a single register
func (t *Transport) ReadRegister(reg rc522.Register) (byte, error) {
	values, err := t.ReadRegisters(reg, 1)
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

// ReadRegisters reads reg count times
func (t *Transport) ReadRegisters(reg rc522.Register, count int) ([]byte, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: read count %d", rc522.ErrInvalidParameter, count)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, rc522.ErrTransportClosed
	}

	addr := frame.UARTReadAddress(byte(reg))
	values := make([]byte, count)
	for i := range values {
		if _, err := t.port.Write([]byte{addr}); err != nil {
			return nil, rc522.NewTransportError("ReadRegisters", t.portName, err)
		}
		v, err := t.readByte()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// readByte waits up to byteTimeout for one byte. A serial read that times out
// returns zero bytes and no error.
func (t *Transport) readByte() (byte, error) {
	buf := make([]byte, 1)
	return transport.TimeoutRetry(byteTimeout, t.portName, func() (byte, bool, error) {
		n, err := t.port.Read(buf)
		if err != nil {
			return 0, false, rc522.NewTransportError("read", t.portName, err)
		}
		if n == 0 {
			return 0, true, nil
		}
		return buf[0], false, nil
	})
}

// Close closes the serial port
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		t.mu.Unlock()
		if t.port != nil {
			if err := t.port.Close(); err != nil {
				t.closeErr = fmt.Errorf("failed to close UART port %s: %w", t.portName, err)
			}
		}
	})
	return t.closeErr
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil && !t.closed
}

// Type returns the transport type
func (*Transport) Type() rc522.TransportType {
	return rc522.TransportUART
}

// Ensure Transport implements rc522.Transport
var _ rc522.Transport = (*Transport)(nil)
