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
)

// PCD/PICC communication errors. A nil error is the driver's STATUS_OK.
var (
	ErrTimeout     = errors.New("timeout in communication")
	ErrCollision   = errors.New("collision detected")
	ErrNoRoom      = errors.New("buffer too small for response")
	ErrCRCMismatch = errors.New("CRC_A does not match")
	ErrBCCMismatch = errors.New("BCC does not match UID bytes")
	ErrMIFARENack  = errors.New("MIFARE PICC responded with NAK")
	ErrProtocol    = errors.New("protocol error")
	ErrAuthFailed  = errors.New("MIFARE authentication failed")
	ErrNoChip      = errors.New("no RC522 chip answered")
)

// Transport errors
var (
	ErrTransportClosed  = errors.New("transport closed")
	ErrTransportTimeout = errors.New("transport timeout")
	ErrEchoMismatch     = errors.New("register address echo mismatch")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// TransportError describes a bus-level failure on a specific port
type TransportError struct {
	Err  error
	Op   string
	Port string
}

// NewTransportError wraps err with the operation and port it occurred on
func NewTransportError(op, port string, err error) *TransportError {
	return &TransportError{Op: op, Port: port, Err: err}
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Port == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTimeoutError returns a TransportError for an operation that timed out
func NewTimeoutError(op, port string) error {
	return NewTransportError(op, port, ErrTransportTimeout)
}
