// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/GermanBionicSystems/hdc100x-devices/hdc100x"
)

type fakeSensor struct {
	readings []error
	calls    int
	dried    bool
	config   hdc100x.Config
	serial   uint64
}

func (f *fakeSensor) Data() (float64, float64, error) {
	i := f.calls
	f.calls++
	if i < len(f.readings) && f.readings[i] != nil {
		return 0, 0, f.readings[i]
	}
	return 21.875 + float64(i), 50, nil
}

func (f *fakeSensor) DrySensor() error {
	f.dried = true
	return nil
}

func (f *fakeSensor) ReadConfig() (hdc100x.Config, error) {
	return f.config, nil
}

func (f *fakeSensor) SerialNumber() (uint64, error) {
	return f.serial, nil
}

type sleepCounter struct {
	clock.Clock
	slept []time.Duration
}

func (c *sleepCounter) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
}

func TestReadLoop(t *testing.T) {
	f := &fakeSensor{readings: []error{nil, nil, errors.New("remote I/O error")}}
	clk := &sleepCounter{Clock: clock.New()}
	var buf bytes.Buffer

	if err := readLoop(&buf, f, f, clk, golog.NewTestLogger(t), true, 5*time.Second, 3); err != nil {
		t.Fatal(err)
	}
	expected := "Temp: 21.88, humidity: 50.00\n" +
		"Temp: 22.88, humidity: 50.00\n" +
		"Temp: 24.88, humidity: 50.00\n"
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("unexpected output (-want +got):\n%s", diff)
	}
	if !f.dried {
		t.Error("expected the sensor to be dried")
	}
	if diff := cmp.Diff([]time.Duration{5 * time.Second, 5 * time.Second, 5 * time.Second}, clk.slept); diff != "" {
		t.Errorf("unexpected delays (-want +got):\n%s", diff)
	}
}

func TestReadLoopFirstReadingFails(t *testing.T) {
	errRead := errors.New("remote I/O error")
	f := &fakeSensor{readings: []error{errRead}}
	var buf bytes.Buffer
	err := readLoop(&buf, f, f, &sleepCounter{Clock: clock.New()}, golog.NewTestLogger(t), true, time.Second, 1)
	if err != errRead {
		t.Fatalf("expected the read error, got %v", err)
	}
	if f.dried || buf.Len() != 0 {
		t.Error("nothing should happen after a failed first reading")
	}
}

func TestPrintInfo(t *testing.T) {
	f := &fakeSensor{
		config: hdc100x.ConfigModeSequential | hdc100x.ConfigBatteryLow,
		serial: 0x012345678980,
	}
	var buf bytes.Buffer
	if err := printInfo(&buf, f); err != nil {
		t.Fatal(err)
	}
	expected := "config:  0x1800 Sequential | BatteryLow | TempRes14 | HumidRes14\n" +
		"battery: low\n" +
		"serial:  012345678980\n"
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestMetrics(t *testing.T) {
	f := &fakeSensor{readings: []error{nil, errors.New("remote I/O error")}}
	clk := clock.NewMock()
	reg := prometheus.NewRegistry()
	s := registerMetrics(reg, f, clk, golog.NewTestLogger(t))

	if v := s.Temperature(); v != 21.88 {
		t.Errorf("expected 21.88, got %v", v)
	}
	// Served from the cached sample.
	if v := s.Humidity(); v != 50 {
		t.Errorf("expected 50, got %v", v)
	}
	if f.calls != 1 {
		t.Errorf("expected a single reading, got %d", f.calls)
	}

	// A failed refresh keeps the last values and counts the error.
	clk.Add(sampleMaxAge)
	if v := s.Temperature(); v != 21.88 {
		t.Errorf("expected the cached 21.88, got %v", v)
	}
	if n := testutil.ToFloat64(s.errors); n != 1 {
		t.Errorf("expected 1 read error, got %v", n)
	}

	if v := s.Temperature(); v != 23.88 {
		t.Errorf("expected 23.88, got %v", v)
	}
	if n, err := testutil.GatherAndCount(reg); err != nil || n != 3 {
		t.Errorf("expected 3 metrics, got %d (%v)", n, err)
	}
}

func TestRound(t *testing.T) {
	if v := round(21.875, 2); v != 21.88 {
		t.Errorf("round(21.875, 2) = %v", v)
	}
	if v := round(-0.004, 2); v != 0 {
		t.Errorf("round(-0.004, 2) = %v", v)
	}
}
