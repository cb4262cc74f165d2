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

// PICCType classifies a card from its select acknowledge (SAK) byte
type PICCType int

const (
	PICCTypeUnknown PICCType = iota
	PICCTypeISO14443_4
	PICCTypeISO18092
	PICCTypeMIFAREMini
	PICCTypeMIFARE1K
	PICCTypeMIFARE4K
	PICCTypeMIFAREUL
	PICCTypeMIFAREPlus
	PICCTypeMIFAREDESFire
	PICCTypeTNP3XXX
	PICCTypeNotComplete
)

var piccTypeNames = map[PICCType]string{
	PICCTypeISO14443_4:    "PICC compliant with ISO/IEC 14443-4",
	PICCTypeISO18092:      "PICC compliant with ISO/IEC 18092 (NFC)",
	PICCTypeMIFAREMini:    "MIFARE Mini, 320 bytes",
	PICCTypeMIFARE1K:      "MIFARE 1KB",
	PICCTypeMIFARE4K:      "MIFARE 4KB",
	PICCTypeMIFAREUL:      "MIFARE Ultralight or Ultralight C",
	PICCTypeMIFAREPlus:    "MIFARE Plus",
	PICCTypeMIFAREDESFire: "MIFARE DESFire",
	PICCTypeTNP3XXX:       "MIFARE TNP3XXX",
	PICCTypeNotComplete:   "SAK indicates UID is not complete.",
}

// PICCTypeFromSAK derives the card type from a SAK byte.
// Bit 8 carries no type information and is ignored.
func PICCTypeFromSAK(sak byte) PICCType {
	switch sak & 0x7F {
	case 0x04:
		return PICCTypeNotComplete
	case 0x09:
		return PICCTypeMIFAREMini
	case 0x08:
		return PICCTypeMIFARE1K
	case 0x18:
		return PICCTypeMIFARE4K
	case 0x00:
		return PICCTypeMIFAREUL
	case 0x10, 0x11:
		return PICCTypeMIFAREPlus
	case 0x01:
		return PICCTypeTNP3XXX
	case 0x20:
		return PICCTypeISO14443_4
	case 0x40:
		return PICCTypeISO18092
	default:
		return PICCTypeUnknown
	}
}

// String returns a human-readable name for the card type
func (t PICCType) String() string {
	if name, ok := piccTypeNames[t]; ok {
		return name
	}
	return "Unknown type"
}

// IsMIFAREClassic reports whether the type uses MIFARE Classic Crypto1 authentication
func (t PICCType) IsMIFAREClassic() bool {
	switch t {
	case PICCTypeMIFAREMini, PICCTypeMIFARE1K, PICCTypeMIFARE4K:
		return true
	default:
		return false
	}
}
