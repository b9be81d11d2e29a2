// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gobotbus implements hdc100x.Transport on a gobot I²C device, for
// hosts where the sensor shares a gobot sysfs bus with other peripherals.
//
// SMBus word transfers put the low byte on the wire first, so this transport
// reports binary.LittleEndian and swaps words it reads back.
package gobotbus

import (
	"encoding/binary"
	"fmt"

	"gobot.io/x/gobot/sysfs"

	"github.com/GermanBionicSystems/hdc100x-devices/common"
	"github.com/GermanBionicSystems/hdc100x-devices/hdc100x"
)

// A Device is typically a sysfs.I2cDevice (gobot.io/x/gobot/sysfs).
type Device interface {
	SetAddress(address int) error
	ReadByte() (byte, error)
	ReadWordData(reg uint8) (uint16, error)
	WriteByte(val byte) error
	WriteWordData(reg uint8, val uint16) error
	Close() error
}

// Transport talks to a single device address through a gobot Device.
type Transport struct {
	dev  Device
	addr uint16
	name string
}

// Open opens the i2c-dev node at path (e.g. /dev/i2c-1) and binds it to
// addr.
func Open(path string, addr uint16) (*Transport, error) {
	dev, err := sysfs.NewI2cDevice(path)
	if err != nil {
		return nil, fmt.Errorf("gobotbus: open %s: %w", path, err)
	}
	t, err := New(dev, addr)
	if err != nil {
		_ = dev.Close()
		return nil, err
	}
	t.name = path
	return t, nil
}

// New binds dev to addr.
func New(dev Device, addr uint16) (*Transport, error) {
	if err := dev.SetAddress(int(addr)); err != nil {
		return nil, fmt.Errorf("gobotbus: set address 0x%x: %w", addr, err)
	}
	return &Transport{dev: dev, addr: addr, name: "gobot"}, nil
}

// Addr implements hdc100x.Transport.
func (t *Transport) Addr() uint16 {
	return t.addr
}

// ByteOrder implements hdc100x.Transport.
func (t *Transport) ByteOrder() binary.ByteOrder {
	return binary.LittleEndian
}

// WriteUint16 implements hdc100x.Transport. v is sent low byte first.
func (t *Transport) WriteUint16(reg byte, v uint16) error {
	return t.dev.WriteWordData(reg, v)
}

// ReadUint16BE implements hdc100x.Transport.
func (t *Transport) ReadUint16BE(reg byte) (uint16, error) {
	v, err := t.dev.ReadWordData(reg)
	if err != nil {
		return 0, err
	}
	return common.ReverseByteOrder16(v), nil
}

// WriteRaw implements hdc100x.Transport.
func (t *Transport) WriteRaw(b byte) error {
	return t.dev.WriteByte(b)
}

// ReadRaw implements hdc100x.Transport.
func (t *Transport) ReadRaw() (byte, error) {
	return t.dev.ReadByte()
}

// Close closes the underlying device.
func (t *Transport) Close() error {
	return t.dev.Close()
}

func (t *Transport) String() string {
	return fmt.Sprintf("%s(0x%x)", t.name, t.addr)
}

var _ hdc100x.Transport = &Transport{}
