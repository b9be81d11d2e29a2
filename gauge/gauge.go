// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gauge draws a reading as a one line bar on the terminal (stdout)
// using ANSI color codes.
//
// Useful to keep an eye on a sensor over ssh without a metrics stack.
package gauge

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for the gauge.
type Opts struct {
	// Width is the number of cells of the bar. Defaults to 40.
	Width   int
	Palette *ansi256.Palette

	_ struct{}
}

// Dev is a bar gauge that outputs to the console.
type Dev struct {
	w       io.Writer
	width   int
	palette ansi256.Palette

	buf bytes.Buffer
}

var empty = color.NRGBA{0x30, 0x30, 0x30, 255}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	width := opts.Width
	if width <= 0 {
		width = 40
	}
	return &Dev{
		w:       colorable.NewColorableStdout(),
		width:   width,
		palette: *p,
	}
}

func (d *Dev) String() string {
	return "Gauge"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors and moves to the next line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Render redraws the line with value placed on the [min, max] scale. Values
// outside the scale are pinned to an end of the bar.
func (d *Dev) Render(label string, value, min, max float64) error {
	if !(max > min) {
		return errors.New("gauge: max must be greater than min")
	}
	n := filled(value, min, max, d.width)

	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	_, _ = fmt.Fprintf(&d.buf, "%-12s ", label)
	for i := 0; i < d.width; i++ {
		c := empty
		if i < n {
			c = cellColor(i, d.width)
		}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = fmt.Fprintf(&d.buf, "\033[0m %7.2f", value)
	_, err := d.buf.WriteTo(d.w)
	return err
}

// filled returns the number of lit cells.
func filled(value, min, max float64, width int) int {
	if math.IsNaN(value) {
		return 0
	}
	n := int(math.Round((value - min) / (max - min) * float64(width)))
	if n < 0 {
		return 0
	}
	if n > width {
		return width
	}
	return n
}

// cellColor grades from blue on the left to red on the right.
func cellColor(i, width int) color.NRGBA {
	if width <= 1 {
		return color.NRGBA{0, 0, 255, 255}
	}
	r := byte(255 * i / (width - 1))
	return color.NRGBA{r, 0, 255 - r, 255}
}

var _ fmt.Stringer = &Dev{}
