// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tinygobus implements hdc100x.Transport on a TinyGo drivers.I2C bus
// so the driver can run on microcontrollers.
package tinygobus

import (
	"encoding/binary"
	"fmt"

	"tinygo.org/x/drivers"

	"github.com/GermanBionicSystems/hdc100x-devices/common"
	"github.com/GermanBionicSystems/hdc100x-devices/hdc100x"
)

// Transport talks to a single device address on a drivers.I2C bus.
type Transport struct {
	bus  drivers.I2C
	addr uint16
}

// New returns a Transport for addr on bus.
func New(bus drivers.I2C, addr uint16) *Transport {
	return &Transport{bus: bus, addr: addr}
}

// Addr implements hdc100x.Transport.
func (t *Transport) Addr() uint16 {
	return t.addr
}

// ByteOrder implements hdc100x.Transport.
func (t *Transport) ByteOrder() binary.ByteOrder {
	return binary.BigEndian
}

// WriteUint16 implements hdc100x.Transport.
func (t *Transport) WriteUint16(reg byte, v uint16) error {
	return t.bus.Tx(t.addr, []byte{reg, byte(v >> 8), byte(v)}, nil)
}

// ReadUint16BE implements hdc100x.Transport.
func (t *Transport) ReadUint16BE(reg byte) (uint16, error) {
	var r [2]byte
	if err := t.bus.Tx(t.addr, []byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return common.Uint16BE(r[0], r[1]), nil
}

// WriteRaw implements hdc100x.Transport.
func (t *Transport) WriteRaw(b byte) error {
	return t.bus.Tx(t.addr, []byte{b}, nil)
}

// ReadRaw implements hdc100x.Transport.
func (t *Transport) ReadRaw() (byte, error) {
	var r [1]byte
	if err := t.bus.Tx(t.addr, nil, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

func (t *Transport) String() string {
	return fmt.Sprintf("tinygo-i2c(0x%x)", t.addr)
}

var _ hdc100x.Transport = &Transport{}
