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

package rc522_test

import (
	"errors"
	"testing"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
	testutil "github.com/ZaparooProject/go-rc522/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// newInitializedDevice returns a device on a simulated chip with card in its field
func newInitializedDevice(t *testing.T, card *testutil.VirtualCard) (*rc522.Device, *testutil.VirtualChip) {
	t.Helper()

	chip := testutil.NewVirtualChip(card)
	device, err := rc522.New(chip, rc522.WithResetDelay(0), rc522.WithTimeout(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, device.Init())
	return device, chip
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		transport rc522.Transport
		name      string
		opts      []rc522.Option
		wantErr   bool
	}{
		{
			name:      "Valid_Transport",
			transport: testutil.NewVirtualChip(nil),
		},
		{
			name:    "Nil_Transport",
			wantErr: true,
		},
		{
			name:      "Invalid_Timeout",
			transport: testutil.NewVirtualChip(nil),
			opts:      []rc522.Option{rc522.WithTimeout(0)},
			wantErr:   true,
		},
		{
			name:      "Negative_Reset_Delay",
			transport: testutil.NewVirtualChip(nil),
			opts:      []rc522.Option{rc522.WithResetDelay(-time.Millisecond)},
			wantErr:   true,
		},
		{
			name:      "Invalid_Antenna_Gain",
			transport: testutil.NewVirtualChip(nil),
			opts:      []rc522.Option{rc522.WithAntennaGain(rc522.AntennaGain(42))},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			device, err := rc522.New(tt.transport, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, rc522.ErrInvalidParameter)
				assert.Nil(t, device)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.transport, device.Transport())
		})
	}
}

func TestDevice_Init(t *testing.T) {
	t.Parallel()

	device, chip := newInitializedDevice(t, nil)

	assert.Equal(t, byte(testutil.DefaultVersion), device.Version())
	assert.Equal(t, byte(0x80), chip.Register(rc522.TModeReg))
	assert.Equal(t, byte(0xA9), chip.Register(rc522.TPrescalerReg))
	assert.Equal(t, byte(0x03), chip.Register(rc522.TReloadRegH))
	assert.Equal(t, byte(0xE8), chip.Register(rc522.TReloadRegL))
	assert.Equal(t, byte(0x40), chip.Register(rc522.TxASKReg))
	assert.Equal(t, byte(0x3D), chip.Register(rc522.ModeReg))
	assert.Equal(t, byte(0x03), chip.Register(rc522.TxControlReg)&0x03, "antenna should be on")
	// reset default gain left alone
	assert.Equal(t, byte(0x48), chip.Register(rc522.RFCfgReg))
}

func TestDevice_InitNoChip(t *testing.T) {
	t.Parallel()

	for _, version := range []byte{0x00, 0xFF} {
		chip := testutil.NewVirtualChip(nil)
		chip.Version = version
		device, err := rc522.New(chip, rc522.WithResetDelay(0))
		require.NoError(t, err)

		err = device.Init()
		require.Error(t, err)
		assert.ErrorIs(t, err, rc522.ErrNoChip)
	}
}

func TestDevice_InitTransportError(t *testing.T) {
	t.Parallel()

	errBus := errors.New("bus error")
	chip := testutil.NewVirtualChip(nil)
	chip.SetError(errBus)
	device, err := rc522.New(chip, rc522.WithResetDelay(0))
	require.NoError(t, err)

	err = device.Init()
	require.Error(t, err)
	assert.ErrorIs(t, err, errBus)
}

func TestDevice_InitHardReset(t *testing.T) {
	t.Parallel()

	pin := &gpiotest.Pin{N: "GPIO25", Num: 25}
	chip := testutil.NewVirtualChip(nil)
	device, err := rc522.New(chip, rc522.WithResetPin(pin), rc522.WithResetDelay(0))
	require.NoError(t, err)

	require.NoError(t, device.Init())
	assert.Equal(t, gpio.High, pin.Read())
}

func TestDevice_AntennaGain(t *testing.T) {
	t.Parallel()

	chip := testutil.NewVirtualChip(nil)
	device, err := rc522.New(chip, rc522.WithResetDelay(0), rc522.WithAntennaGain(rc522.RxGain48dB))
	require.NoError(t, err)
	require.NoError(t, device.Init())
	assert.Equal(t, byte(0x78), chip.Register(rc522.RFCfgReg))

	require.NoError(t, device.SetAntennaGain(rc522.RxGain18dB))
	assert.Equal(t, byte(0x28), chip.Register(rc522.RFCfgReg))

	assert.ErrorIs(t, device.SetAntennaGain(rc522.RxGainDefault), rc522.ErrInvalidParameter)
}

func TestDevice_AntennaOff(t *testing.T) {
	t.Parallel()

	device, chip := newInitializedDevice(t, nil)

	require.NoError(t, device.AntennaOff())
	assert.Equal(t, byte(0x80), chip.Register(rc522.TxControlReg))

	require.NoError(t, device.AntennaOn())
	assert.Equal(t, byte(0x83), chip.Register(rc522.TxControlReg))
}

func TestVersionName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0x92 (v2.0)", rc522.VersionName(0x92))
	assert.Equal(t, "0x91 (v1.0)", rc522.VersionName(0x91))
	assert.Equal(t, "0x88 (clone FM17522)", rc522.VersionName(0x88))
	assert.Equal(t, "0x42 (unknown)", rc522.VersionName(0x42))
}
