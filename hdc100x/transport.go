// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hdc100x

import (
	"encoding/binary"

	"periph.io/x/conn/v3/i2c"
)

// Transport is the register level view of the bus the driver needs. A
// Transport is bound to a single device address and is owned by exactly one
// Dev.
//
// Implementations exist for periph.io (I2CTransport, the default), gobot
// (package gobotbus) and TinyGo (package tinygobus).
type Transport interface {
	// Addr returns the bus address of the device.
	Addr() uint16
	// ByteOrder returns the order WriteUint16 puts the two bytes of a value
	// on the wire. The HDC100x expects binary.BigEndian; Dev reverses values
	// before writing when the transport uses another order.
	ByteOrder() binary.ByteOrder
	// WriteUint16 writes v to register reg in the transport's native order.
	WriteUint16(reg byte, v uint16) error
	// ReadUint16BE reads the big-endian 16 bit value of register reg.
	ReadUint16BE(reg byte) (uint16, error)
	// WriteRaw writes a single byte with no register prefix. The HDC100x uses
	// it to select the register pointer and trigger conversions.
	WriteRaw(b byte) error
	// ReadRaw reads a single byte. It fails when the device NAKs because a
	// conversion is still in progress.
	ReadRaw() (byte, error)
	String() string
}

// I2CTransport implements Transport on a periph.io I²C bus.
type I2CTransport struct {
	d *i2c.Dev
}

// NewI2CTransport returns a Transport talking to addr on bus b.
func NewI2CTransport(b i2c.Bus, addr uint16) *I2CTransport {
	return &I2CTransport{d: &i2c.Dev{Bus: b, Addr: addr}}
}

// Addr implements Transport.
func (t *I2CTransport) Addr() uint16 {
	return t.d.Addr
}

// ByteOrder implements Transport. Register words are written most
// significant byte first.
func (t *I2CTransport) ByteOrder() binary.ByteOrder {
	return binary.BigEndian
}

// WriteUint16 implements Transport.
func (t *I2CTransport) WriteUint16(reg byte, v uint16) error {
	w := []byte{reg, 0, 0}
	binary.BigEndian.PutUint16(w[1:], v)
	return t.d.Tx(w, nil)
}

// ReadUint16BE implements Transport.
func (t *I2CTransport) ReadUint16BE(reg byte) (uint16, error) {
	r := make([]byte, 2)
	if err := t.d.Tx([]byte{reg}, r); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r), nil
}

// WriteRaw implements Transport.
func (t *I2CTransport) WriteRaw(b byte) error {
	return t.d.Tx([]byte{b}, nil)
}

// ReadRaw implements Transport.
func (t *I2CTransport) ReadRaw() (byte, error) {
	var r [1]byte
	if err := t.d.Tx(nil, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

func (t *I2CTransport) String() string {
	return t.d.String()
}

var _ Transport = &I2CTransport{}
