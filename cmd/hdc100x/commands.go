// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"

	"github.com/GermanBionicSystems/hdc100x-devices/gauge"
	"github.com/GermanBionicSystems/hdc100x-devices/hdc100x"
)

// reader is the part of hdc100x.Dev the loops need.
type reader interface {
	Data() (temperature, humidity float64, err error)
}

type dryer interface {
	DrySensor() error
}

func readAction(c *cli.Context, dev *hdc100x.Dev, logger golog.Logger) error {
	return readLoop(c.App.Writer, dev, dev, clock.New(), logger, c.Bool(flagDry), c.Duration(flagInterval), c.Int(flagCount))
}

// readLoop prints one reading, optionally dries the sensor, then prints
// count more readings interval apart. A count of 0 never stops.
func readLoop(w io.Writer, r reader, d dryer, clk clock.Clock, logger golog.Logger, dry bool, interval time.Duration, count int) error {
	temp, humidity, err := r.Data()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Temp: %.2f, humidity: %.2f\n", temp, humidity)
	if dry {
		if err := d.DrySensor(); err != nil {
			return err
		}
	}
	for i := 0; count == 0 || i < count; i++ {
		temp, humidity, err := r.Data()
		if err != nil {
			logger.Warnw("reading failed", "error", err)
		} else {
			fmt.Fprintf(w, "Temp: %.2f, humidity: %.2f\n", temp, humidity)
		}
		clk.Sleep(interval)
	}
	return nil
}

func dryAction(c *cli.Context, dev *hdc100x.Dev) error {
	start := time.Now()
	if err := dev.DrySensor(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "sensor dried in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// info is the part of hdc100x.Dev the info command needs.
type info interface {
	ReadConfig() (hdc100x.Config, error)
	SerialNumber() (uint64, error)
}

func infoAction(c *cli.Context, dev *hdc100x.Dev) error {
	return printInfo(c.App.Writer, dev)
}

func printInfo(w io.Writer, dev info) error {
	cfg, err := dev.ReadConfig()
	if err != nil {
		return err
	}
	sn, err := dev.SerialNumber()
	if err != nil {
		return err
	}
	battery := "ok"
	if cfg&hdc100x.ConfigBatteryLow != 0 {
		battery = "low"
	}
	fmt.Fprintf(w, "config:  0x%04x %s\n", uint16(cfg), cfg)
	fmt.Fprintf(w, "battery: %s\n", battery)
	fmt.Fprintf(w, "serial:  %012x\n", sn)
	return nil
}

func watchAction(c *cli.Context, dev *hdc100x.Dev, logger golog.Logger) error {
	g := gauge.New(&gauge.Opts{})
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)

	ticker := time.NewTicker(c.Duration(flagInterval))
	defer ticker.Stop()
	for {
		t, h, err := dev.Data()
		if err != nil {
			logger.Warnw("reading failed", "error", err)
		} else if err := g.Render(fmt.Sprintf("%.1fC %%RH", t), h, 0, 100); err != nil {
			return err
		}
		select {
		case <-stop:
			return g.Halt()
		case <-ticker.C:
		}
	}
}
