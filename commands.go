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

// Register is an RC522 register address (6 bits)
type Register byte

// Page 0: command and status
const (
	CommandReg    Register = 0x01
	ComIEnReg     Register = 0x02
	DivIEnReg     Register = 0x03
	ComIrqReg     Register = 0x04
	DivIrqReg     Register = 0x05
	ErrorReg      Register = 0x06
	Status1Reg    Register = 0x07
	Status2Reg    Register = 0x08
	FIFODataReg   Register = 0x09
	FIFOLevelReg  Register = 0x0A
	WaterLevelReg Register = 0x0B
	ControlReg    Register = 0x0C
	BitFramingReg Register = 0x0D
	CollReg       Register = 0x0E
)

// Page 1: command
const (
	ModeReg        Register = 0x11
	TxModeReg      Register = 0x12
	RxModeReg      Register = 0x13
	TxControlReg   Register = 0x14
	TxASKReg       Register = 0x15
	TxSelReg       Register = 0x16
	RxSelReg       Register = 0x17
	RxThresholdReg Register = 0x18
	DemodReg       Register = 0x19
	MfTxReg        Register = 0x1C
	MfRxReg        Register = 0x1D
	SerialSpeedReg Register = 0x1F
)

// Page 2: configuration
const (
	CRCResultRegH Register = 0x21
	CRCResultRegL Register = 0x22
	ModWidthReg   Register = 0x24
	RFCfgReg      Register = 0x26
	GsNReg        Register = 0x27
	CWGsPReg      Register = 0x28
	ModGsPReg     Register = 0x29
	TModeReg      Register = 0x2A
	TPrescalerReg Register = 0x2B
	TReloadRegH   Register = 0x2C
	TReloadRegL   Register = 0x2D
)

// Page 3: test registers
const (
	VersionReg Register = 0x37
)

// PCD command codes written to CommandReg
const (
	pcdIdle             = 0x00
	pcdMem              = 0x01
	pcdGenerateRandomID = 0x02
	pcdCalcCRC          = 0x03
	pcdTransmit         = 0x04
	pcdNoCmdChange      = 0x07
	pcdReceive          = 0x08
	pcdTransceive       = 0x0C
	pcdMFAuthent        = 0x0E
	pcdSoftReset        = 0x0F
)

// PICC command codes sent over the air
const (
	piccCmdREQA     = 0x26
	piccCmdWUPA     = 0x52
	piccCmdCT       = 0x88 // cascade tag
	piccCmdSelCL1   = 0x93
	piccCmdSelCL2   = 0x95
	piccCmdSelCL3   = 0x97
	piccCmdHLTA     = 0x50
	piccCmdMFAuthA  = 0x60
	piccCmdMFAuthB  = 0x61
	piccCmdMFRead   = 0x30
	piccCmdMFWrite  = 0xA0
	piccSelectNVB   = 0x70 // 7 full bytes follow
	piccAnticollNVB = 0x20 // 2 bytes, no UID bits
)

// Register bits
const (
	irqTimer          byte = 0x01
	irqErr            byte = 0x02
	irqIdle           byte = 0x10
	irqRx             byte = 0x20
	errBufferOvfl     byte = 0x10
	errColl           byte = 0x08
	errCRC            byte = 0x04
	errParity         byte = 0x02
	errProtocol       byte = 0x01
	errFatalMask      byte = errBufferOvfl | errParity | errProtocol
	status2Crypto1    byte = 0x08
	commandPowerDown  byte = 0x10
	fifoFlush         byte = 0x80
	bitFramingSend    byte = 0x80
	collValuesAfter   byte = 0x80
	txControlAntenna  byte = 0x03
	controlRxLastBits byte = 0x07
	rfCfgRxGainMask   byte = 0x70
)

// Known VersionReg values
const (
	versionFM17522  = 0x88
	versionFM17522E = 0x12
	versionV0       = 0x90
	versionV1       = 0x91
	versionV2       = 0x92
)
