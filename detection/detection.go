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

// Package detection finds buses and ports an RC522 may be attached to.
// Transport detectors register themselves on import:
//
//	import (
//	    "github.com/ZaparooProject/go-rc522/detection"
//	    _ "github.com/ZaparooProject/go-rc522/detection/i2c"
//	    _ "github.com/ZaparooProject/go-rc522/detection/spi"
//	    _ "github.com/ZaparooProject/go-rc522/detection/uart"
//	)
package detection

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Mode controls how intrusive detection is
type Mode int

const (
	// Passive only enumerates buses and ports
	Passive Mode = iota
	// Safe also drops device nodes the process cannot open
	Safe
	// Full opens every candidate and reads VersionReg
	Full
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case Passive:
		return "passive"
	case Safe:
		return "safe"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// Detection errors
var (
	ErrNoDevicesFound      = errors.New("no devices found")
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
	ErrDetectionTimeout    = errors.New("detection timed out")
	ErrUnknownTransport    = errors.New("no detector registered for transport")
)

// DeviceInfo describes one candidate reader
type DeviceInfo struct {
	Metadata  map[string]string
	Transport string
	Path      string
	Name      string
}

// Options configures detection
type Options struct {
	// IgnorePaths lists device paths that are never reported or opened
	IgnorePaths []string

	// Blocklist lists USB VID:PID pairs of serial adapters that are never opened
	Blocklist []string

	Timeout time.Duration
	Mode    Mode
}

// DefaultOptions returns default detection options
func DefaultOptions() Options {
	return Options{
		Mode:      Safe,
		Timeout:   5 * time.Second,
		Blocklist: DefaultBlocklist(),
	}
}

// Detector finds candidate devices for one transport
type Detector interface {
	Transport() string
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Detector{}
)

// RegisterDetector makes a detector available to DetectAll. A later
// registration for the same transport replaces the earlier one.
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Transport()] = d
}

// Detectors returns the registered detectors sorted by transport
func Detectors() []Detector {
	registryMu.RLock()
	defer registryMu.RUnlock()
	detectors := make([]Detector, 0, len(registry))
	for _, d := range registry {
		detectors = append(detectors, d)
	}
	sort.Slice(detectors, func(i, j int) bool {
		return detectors[i].Transport() < detectors[j].Transport()
	})
	return detectors
}

// DetectAll runs every registered detector. Detectors that find nothing or
// are unsupported on this platform are skipped.
func DetectAll(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var devices []DeviceInfo
	for _, d := range Detectors() {
		found, err := d.Detect(ctx, opts)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrDetectionTimeout) {
			return FilterIgnored(devices, opts.IgnorePaths), ErrDetectionTimeout
		}
		devices = append(devices, found...)
	}

	devices = FilterIgnored(devices, opts.IgnorePaths)
	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}
	return devices, nil
}

// DetectTransport runs the detector registered for transport
func DetectTransport(ctx context.Context, transport string, opts *Options) ([]DeviceInfo, error) {
	registryMu.RLock()
	d, ok := registry[transport]
	registryMu.RUnlock()
	if !ok {
		return nil, ErrUnknownTransport
	}
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}

	devices, err := d.Detect(ctx, opts)
	if err != nil {
		return nil, err
	}
	devices = FilterIgnored(devices, opts.IgnorePaths)
	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}
	return devices, nil
}

// FilterIgnored drops devices whose path is in ignorePaths
func FilterIgnored(devices []DeviceInfo, ignorePaths []string) []DeviceInfo {
	if len(ignorePaths) == 0 {
		return devices
	}
	kept := devices[:0]
	for _, d := range devices {
		if !IsPathIgnored(d.Path, ignorePaths) {
			kept = append(kept, d)
		}
	}
	return kept
}

// CheckContext returns ErrDetectionTimeout once ctx is done
func CheckContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ErrDetectionTimeout
	default:
		return nil
	}
}
