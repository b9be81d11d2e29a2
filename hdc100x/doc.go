// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hdc100x provides a driver for the Texas Instruments HDC1000 and
// HDC1008 I²C humidity and temperature sensors.
//
// The device is used in sequential mode at 14 bit resolution: a single
// trigger acquires temperature then humidity, and the four result bytes are
// read back one at a time. While a conversion is running the device NAKs
// reads, which the driver retries once before giving up with a
// *ReadTimeoutError.
//
// DrySensor runs the on-chip heater to drive off condensation after the
// sensor has been exposed to high humidity.
//
// The driver talks to the bus through a Transport. NewI2C uses periph.io;
// the gobotbus and tinygobus packages adapt gobot and TinyGo buses.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/hdc1008.pdf
package hdc100x
