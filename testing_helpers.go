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
	"sync"
)

// RegisterWrite records one value written by the driver
type RegisterWrite struct {
	Reg   Register
	Value byte
}

// MockTransport is a scripted register map for testing driver error paths.
// Writes are recorded and never change what reads return, except through
// the OnWrite hook. FIFODataReg reads pop the scripted FIFO and FIFOLevelReg
// reports its length unless a level was set explicitly.
type MockTransport struct {
	OnWrite    func(m *MockTransport, reg Register, value byte)
	regs       map[Register]byte
	readErrs   map[Register]error
	writeErrs  map[Register]error
	writes     []RegisterWrite
	fifo       []byte
	mu         sync.Mutex
	closeCalls int
	closed     bool
}

// NewMockTransport creates a mock with every register reading 0
func NewMockTransport() *MockTransport {
	return &MockTransport{
		regs:      make(map[Register]byte),
		readErrs:  make(map[Register]error),
		writeErrs: make(map[Register]error),
	}
}

// SetRegister sets the value reads of reg return. It may be called from OnWrite.
func (m *MockTransport) SetRegister(reg Register, value byte) {
	m.regs[reg] = value
}

// SetFIFO scripts the bytes the PCD received
func (m *MockTransport) SetFIFO(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fifo = append([]byte(nil), data...)
}

// SetReadError makes reads of reg fail
func (m *MockTransport) SetReadError(reg Register, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrs[reg] = err
}

// SetWriteError makes writes to reg fail
func (m *MockTransport) SetWriteError(reg Register, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErrs[reg] = err
}

// Writes returns every recorded write in order
func (m *MockTransport) Writes() []RegisterWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RegisterWrite(nil), m.writes...)
}

// WritesTo returns the values written to reg in order
func (m *MockTransport) WritesTo(reg Register) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	var values []byte
	for _, w := range m.writes {
		if w.Reg == reg {
			values = append(values, w.Value)
		}
	}
	return values
}

// CloseCalls returns how many times Close was called
func (m *MockTransport) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

// WriteRegister implements Transport
func (m *MockTransport) WriteRegister(reg Register, values ...byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrTransportClosed
	}
	if err := m.writeErrs[reg]; err != nil {
		return err
	}
	for _, v := range values {
		m.writes = append(m.writes, RegisterWrite{Reg: reg, Value: v})
		if m.OnWrite != nil {
			m.OnWrite(m, reg, v)
		}
	}
	return nil
}

// ReadRegister implements Transport
func (m *MockTransport) ReadRegister(reg Register) (byte, error) {
	values, err := m.ReadRegisters(reg, 1)
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

// ReadRegisters implements Transport
func (m *MockTransport) ReadRegisters(reg Register, count int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrTransportClosed
	}
	if err := m.readErrs[reg]; err != nil {
		return nil, err
	}

	values := make([]byte, count)
	for i := range values {
		switch reg {
		case FIFODataReg:
			if len(m.fifo) > 0 {
				values[i] = m.fifo[0]
				m.fifo = m.fifo[1:]
			}
		case FIFOLevelReg:
			if v, ok := m.regs[reg]; ok {
				values[i] = v
			} else {
				values[i] = byte(len(m.fifo))
			}
		default:
			values[i] = m.regs[reg]
		}
	}
	return values, nil
}

// Close implements Transport
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
	m.closed = true
	return nil
}

// IsConnected implements Transport
func (m *MockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type implements Transport
func (*MockTransport) Type() TransportType {
	return TransportMock
}

// Ensure MockTransport implements Transport
var _ Transport = (*MockTransport)(nil)
