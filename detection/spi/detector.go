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

// Package spi detects SPI ports an RC522 may be attached to
package spi

import (
	"context"
	"fmt"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/ZaparooProject/go-rc522/detection"
	spitransport "github.com/ZaparooProject/go-rc522/transport/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// detector implements the Detector interface for SPI ports
type detector struct{}

// New creates a new SPI detector
func New() detection.Detector {
	return &detector{}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return string(rc522.TransportSPI)
}

// Detect lists the SPI ports known to periph. The RC522 has no reset state
// that survives a failed read, so Full mode is safe on SPI.
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	var devices []detection.DeviceInfo
	for _, ref := range spireg.All() {
		if err := detection.CheckContext(ctx); err != nil {
			return devices, err
		}
		if ignored(ref, opts.IgnorePaths) {
			continue
		}
		if opts.Mode >= detection.Safe && !detection.Accessible(ref.Name) {
			continue
		}

		device := detection.DeviceInfo{
			Transport: string(rc522.TransportSPI),
			Path:      ref.Name,
			Name:      "SPI port " + ref.Name,
			Metadata:  map[string]string{},
		}
		if len(ref.Aliases) > 0 {
			device.Metadata["alias"] = ref.Aliases[0]
		}

		if opts.Mode == detection.Full {
			version, err := readVersion(ref.Name)
			if err != nil {
				continue
			}
			device.Metadata["version"] = rc522.VersionName(version)
		}
		devices = append(devices, device)
	}
	return devices, nil
}

func ignored(ref *spireg.Ref, ignorePaths []string) bool {
	if detection.IsPathIgnored(ref.Name, ignorePaths) {
		return true
	}
	for _, alias := range ref.Aliases {
		if detection.IsPathIgnored(alias, ignorePaths) {
			return true
		}
	}
	return false
}

// readVersion opens port without a reset pin and reads VersionReg
func readVersion(port string) (byte, error) {
	t, err := spitransport.New(port)
	if err != nil {
		return 0, err
	}
	defer func() { _ = t.Close() }()

	version, err := t.ReadRegister(rc522.VersionReg)
	if err != nil {
		return 0, err
	}
	if version == 0x00 || version == 0xFF {
		return 0, rc522.ErrNoChip
	}
	return version, nil
}
