// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is a container for the HDC100x humidity and temperature
// sensor driver and its bus adapters.
//
// The driver lives in package hdc100x; cmd/hdc100x is a command line tool
// that reads, dries and exports the sensor.
package devices
