// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hdc100x reads, dries and exports an HDC1000/HDC1008 sensor.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/hdc100x-devices/hdc100x"
	"github.com/GermanBionicSystems/hdc100x-devices/hdc100x/gobotbus"
)

const (
	// Flags.
	flagBus       = "bus"
	flagAddr      = "addr"
	flagTransport = "transport"
	flagDevice    = "device"
	flagDebug     = "debug"
	flagDry       = "dry"
	flagInterval  = "interval"
	flagCount     = "count"
	flagListen    = "listen"

	transportPeriph = "periph"
	transportGobot  = "gobot"
)

func main() {
	var logger golog.Logger

	intervalFlag := &cli.DurationFlag{
		Name:  flagInterval,
		Value: 5 * time.Second,
		Usage: "time between readings",
	}

	app := &cli.App{
		Name:  "hdc100x",
		Usage: "read an HDC1000/HDC1008 humidity and temperature sensor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagBus,
				Usage: "periph I²C bus name, empty for the first one",
			},
			&cli.StringFlag{
				Name:  flagAddr,
				Value: "0x40",
				Usage: "device address",
			},
			&cli.StringFlag{
				Name:  flagTransport,
				Value: transportPeriph,
				Usage: "bus access, periph or gobot",
			},
			&cli.StringFlag{
				Name:  flagDevice,
				Value: "/dev/i2c-1",
				Usage: "i2c-dev node used by the gobot transport",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = golog.NewDebugLogger("hdc100x")
			} else {
				logger = zap.NewNop().Sugar()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "read",
				Usage: "print a reading every interval",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagDry,
						Usage: "dry the sensor after the first reading",
					},
					intervalFlag,
					&cli.IntFlag{
						Name:  flagCount,
						Usage: "number of readings after the first, 0 for no limit",
					},
				},
				Action: func(c *cli.Context) error {
					return withDevice(c, logger, func(dev *hdc100x.Dev) error {
						return readAction(c, dev, logger)
					})
				},
			},
			{
				Name:  "dry",
				Usage: "run the heater to drive off condensation",
				Action: func(c *cli.Context) error {
					return withDevice(c, logger, func(dev *hdc100x.Dev) error {
						return dryAction(c, dev)
					})
				},
			},
			{
				Name:  "info",
				Usage: "print the configuration, battery status and serial number",
				Action: func(c *cli.Context) error {
					return withDevice(c, logger, func(dev *hdc100x.Dev) error {
						return infoAction(c, dev)
					})
				},
			},
			{
				Name:  "watch",
				Usage: "show the readings as terminal gauges",
				Flags: []cli.Flag{intervalFlag},
				Action: func(c *cli.Context) error {
					return withDevice(c, logger, func(dev *hdc100x.Dev) error {
						return watchAction(c, dev, logger)
					})
				},
			},
			{
				Name:  "serve",
				Usage: "export the readings to Prometheus",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagListen,
						Value: ":9120",
						Usage: "Prometheus exporter address",
					},
				},
				Action: func(c *cli.Context) error {
					return withDevice(c, logger, func(dev *hdc100x.Dev) error {
						return serveAction(c, dev, logger)
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withDevice opens the sensor selected by the global flags, runs fn and
// releases the bus.
func withDevice(c *cli.Context, logger golog.Logger, fn func(dev *hdc100x.Dev) error) (err error) {
	addr, err := strconv.ParseUint(c.String(flagAddr), 0, 16)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", c.String(flagAddr), err)
	}
	opts := &hdc100x.Opts{Logger: logger}

	var dev *hdc100x.Dev
	switch c.String(flagTransport) {
	case transportPeriph:
		if _, err = host.Init(); err != nil {
			return err
		}
		var bus i2c.BusCloser
		if bus, err = i2creg.Open(c.String(flagBus)); err != nil {
			return fmt.Errorf("failed to open I²C: %w", err)
		}
		defer func() { err = multierr.Append(err, bus.Close()) }()
		if dev, err = hdc100x.NewI2C(bus, uint16(addr), opts); err != nil {
			return err
		}
	case transportGobot:
		var t *gobotbus.Transport
		if t, err = gobotbus.Open(c.String(flagDevice), uint16(addr)); err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, t.Close()) }()
		if dev, err = hdc100x.New(t, opts); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown transport %q", c.String(flagTransport))
	}
	logger.Debugw("opened", "device", dev.String())
	defer func() { err = multierr.Append(err, dev.Halt()) }()
	return fn(dev)
}
