// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gauge

import (
	"bytes"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
)

func newTestDev(width int) (*Dev, *bytes.Buffer) {
	d := New(&Opts{Width: width})
	buf := &bytes.Buffer{}
	d.w = buf
	return d, buf
}

func TestFilled(t *testing.T) {
	data := []struct {
		value    float64
		min, max float64
		expected int
	}{
		{0, 0, 100, 0},
		{50, 0, 100, 5},
		{100, 0, 100, 10},
		{-40, -40, 125, 0},
		{21.875, -40, 125, 4},
		{150, 0, 100, 10},
		{-5, 0, 100, 0},
		{math.NaN(), 0, 100, 0},
	}
	for _, line := range data {
		if got := filled(line.value, line.min, line.max, 10); got != line.expected {
			t.Errorf("filled(%v, %v, %v) = %d, expected %d", line.value, line.min, line.max, got, line.expected)
		}
	}
}

func TestCellColor(t *testing.T) {
	if c := cellColor(0, 10); c != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("first cell should be blue, got %v", c)
	}
	if c := cellColor(9, 10); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("last cell should be red, got %v", c)
	}
}

func TestRender(t *testing.T) {
	d, buf := newTestDev(4)
	if err := d.Render("humidity", 50, 0, 100); err != nil {
		t.Fatal(err)
	}
	p := ansi256.Default
	expected := "\r\033[0mhumidity     " +
		p.Block(cellColor(0, 4)) + p.Block(cellColor(1, 4)) +
		p.Block(empty) + p.Block(empty) +
		"\033[0m   50.00"
	if s := buf.String(); s != expected {
		t.Errorf("unexpected output %q, expected %q", s, expected)
	}

	buf.Reset()
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if s := buf.String(); s != "\n\033[0m" {
		t.Errorf("unexpected halt output %q", s)
	}
}

func TestRenderInvalidScale(t *testing.T) {
	d, buf := newTestDev(4)
	if err := d.Render("t", 1, 10, 10); err == nil {
		t.Error("expected an error for an empty scale")
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written, got %q", buf.String())
	}
}

func TestNewDefaults(t *testing.T) {
	d := New(nil)
	if d.width != 40 {
		t.Errorf("expected default width 40, got %d", d.width)
	}
	if !strings.Contains(d.String(), "Gauge") {
		t.Error("unexpected String()")
	}
}
