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

/*
Package rc522 provides a pure Go driver for the NXP MFRC522 (RC522) contactless reader IC.

The RC522 is a 13.56 MHz reader/writer for ISO/IEC 14443 A cards such as MIFARE
Classic and MIFARE Ultralight. It is usually sold on small breakout boards wired
to the SPI header of a single-board computer.

Features:
  - SPI, I2C and UART transports on top of periph.io and go.bug.st/serial
  - Card presence detection (REQA/WUPA)
  - Anticollision and selection for 4, 7 and 10 byte UIDs
  - Card type classification from the SAK byte
  - MIFARE Classic Key A/B authentication and block reads
  - HLTA and Crypto1 teardown

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-rc522"
	    "github.com/ZaparooProject/go-rc522/transport/spi"
	)

	transport, err := spi.New("", spi.WithResetPin("GPIO25"))
	if err != nil {
	    log.Fatal(err)
	}
	defer transport.Close()

	device, err := rc522.New(transport, rc522.WithResetPin(transport.ResetPin()))
	if err != nil {
	    log.Fatal(err)
	}
	if err := device.Init(); err != nil {
	    log.Fatal(err)
	}

	if device.IsNewCardPresent() {
	    uid, err := device.ReadCardSerial()
	    if err == nil {
	        fmt.Printf("%s: %s\n", uid, uid.Type())
	    }
	}

Authentication:

Reading a MIFARE Classic block requires a Crypto1 session. Always finish with
HaltA and StopCrypto1, whatever the outcome:

	defer func() {
	    _ = device.HaltA()
	    _ = device.StopCrypto1()
	}()
	if err := device.Authenticate(rc522.MIFAREKeyA, 0, key, uid); err != nil {
	    return err
	}
	buf := make([]byte, rc522.MIFAREReadBufferSize)
	n, err := device.ReadBlock(0, buf)

Error Handling:

A nil error is the chip's STATUS_OK. Failures wrap sentinel errors:

	if errors.Is(err, rc522.ErrTimeout) {
	    // no card answered
	}

Thread Safety:

Device operations are not thread-safe. If you need concurrent access,
implement appropriate synchronization in your application.
*/
package rc522
