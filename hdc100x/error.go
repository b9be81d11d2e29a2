// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hdc100x

import "fmt"

// IdentityMismatchError is returned by New when the device at the address
// does not report the HDC100x manufacturer or device ID.
type IdentityMismatchError struct {
	Addr     uint16
	Register byte
	Expected uint16
	Actual   uint16
}

func (e *IdentityMismatchError) Error() string {
	name := "device id"
	if e.Register == RegManufacturerID {
		name = "manufacturer id"
	}
	return fmt.Sprintf("hdc100x: device at 0x%x has an unexpected %s 0x%x (expected 0x%x)",
		e.Addr, name, e.Actual, e.Expected)
}

// ReadTimeoutError is returned when a conversion result could not be read
// within the retry budget. Err holds the last failure reported by the bus.
type ReadTimeoutError struct {
	Addr     uint16
	Register byte
	Attempts int
	Err      error
}

func (e *ReadTimeoutError) Error() string {
	msg := fmt.Sprintf("hdc100x: unable to read register 0x%02x of device at 0x%x after %d attempts",
		e.Register, e.Addr, e.Attempts)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ReadTimeoutError) Unwrap() error {
	return e.Err
}
