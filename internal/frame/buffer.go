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

import "sync"

// bufferPool holds scratch buffers big enough for a full FIFO transfer plus address byte
var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, FIFOSize+1)
		return &b
	},
}

// GetBuffer returns a zeroed buffer of length size from the pool.
// Buffers larger than a FIFO transfer are allocated directly.
func GetBuffer(size int) []byte {
	if size > FIFOSize+1 {
		return make([]byte, size)
	}
	bp, ok := bufferPool.Get().(*[]byte)
	if !ok {
		return make([]byte, size)
	}
	buf := (*bp)[:size]
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// PutBuffer returns a buffer obtained from GetBuffer to the pool
func PutBuffer(buf []byte) {
	if cap(buf) != FIFOSize+1 {
		return
	}
	buf = buf[:cap(buf)]
	bufferPool.Put(&buf)
}
