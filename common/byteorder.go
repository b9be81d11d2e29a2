// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, reversing the byte order of a 16 bit register value for buses
// whose native word order differs from the device's.
package common

// ReverseByteOrder16 swaps the two bytes of v. SMBus word transfers send the
// low byte first, while TI sensors expect the high byte first on the wire.
func ReverseByteOrder16(v uint16) uint16 {
	return v<<8 | v>>8
}

// Uint16BE assembles a 16 bit value from its high and low bytes.
func Uint16BE(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}
