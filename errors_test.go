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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransportError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *TransportError
		name string
		want string
	}{
		{
			name: "with port",
			err:  NewTransportError("ReadRegisters", "SPI0.0", ErrTransportClosed),
			want: "ReadRegisters on SPI0.0: transport closed",
		},
		{
			name: "without port",
			err:  NewTransportError("WriteRegister", "", ErrTransportTimeout),
			want: "WriteRegister: transport timeout",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	t.Parallel()

	err := NewTimeoutError("read", "/dev/ttyUSB0")
	assert.ErrorIs(t, err, ErrTransportTimeout)

	var te *TransportError
	assert.True(t, errors.As(err, &te))
	assert.Equal(t, "read", te.Op)
	assert.Equal(t, "/dev/ttyUSB0", te.Port)
}
