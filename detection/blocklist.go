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

package detection

import (
	"path/filepath"
	"slices"
	"strings"
)

// DefaultBlocklist returns USB VID:PID pairs that Full mode never opens.
// Opening the port of an Arduino style board toggles DTR and resets the
// sketch running on it, so native USB boards are skipped. RC522 UART
// modules sit behind plain USB serial bridges (CH340, CP210x, FT232).
func DefaultBlocklist() []string {
	return []string{
		"2341:0043", // Arduino Uno R3
		"2341:0042", // Arduino Mega 2560 R3
		"2341:8036", // Arduino Leonardo
		"2E8A:0005", // Raspberry Pi Pico MicroPython
	}
}

// IsBlocked reports whether vidpid appears in blocklist, ignoring case and
// surrounding space
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = strings.TrimSpace(vidpid)
	if vidpid == "" {
		return false
	}
	return slices.ContainsFunc(blocklist, func(blocked string) bool {
		return strings.EqualFold(vidpid, strings.TrimSpace(blocked))
	})
}

// IsPathIgnored reports whether devicePath matches one of ignorePaths after
// cleaning both. Matching is case-insensitive so COM ports compare equal.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}
	device := cleanPath(devicePath)
	return slices.ContainsFunc(ignorePaths, func(p string) bool {
		return p != "" && strings.EqualFold(device, cleanPath(p))
	})
}

func cleanPath(path string) string {
	return filepath.Clean(strings.TrimSpace(path))
}
