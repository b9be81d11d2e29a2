// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/GermanBionicSystems/hdc100x-devices/hdc100x"
)

// A sample is reused by every gauge for this long, so one scrape triggers a
// single conversion.
const sampleMaxAge = time.Second

// sampler caches the last reading of r.
type sampler struct {
	r      reader
	clk    clock.Clock
	maxAge time.Duration
	errors prometheus.Counter
	logger golog.Logger

	mu          sync.Mutex
	at          time.Time
	temperature float64
	humidity    float64
}

// refresh reads the sensor when the cached sample is stale. On failure the
// previous values are kept.
func (s *sampler) refresh() {
	now := s.clk.Now()
	if !s.at.IsZero() && now.Sub(s.at) < s.maxAge {
		return
	}
	t, h, err := s.r.Data()
	if err != nil {
		s.errors.Inc()
		s.logger.Warnw("reading failed", "error", err)
		return
	}
	s.at = now
	s.temperature = t
	s.humidity = h
}

func (s *sampler) Temperature() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()
	return round(s.temperature, 2)
}

func (s *sampler) Humidity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()
	return round(s.humidity, 2)
}

// registerMetrics creates the exported metrics on reg, backed by r.
func registerMetrics(reg prometheus.Registerer, r reader, clk clock.Clock, logger golog.Logger) *sampler {
	factory := promauto.With(reg)
	s := &sampler{
		r:      r,
		clk:    clk,
		maxAge: sampleMaxAge,
		logger: logger,
		errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "sensors",
			Subsystem: "hdc100x",
			Name:      "read_errors_total",
			Help:      "Readings that failed.",
		}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "hdc100x",
		Name:      "temperature_celsius",
		Help:      "Temperature in degrees Celsius.",
	}, s.Temperature)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "hdc100x",
		Name:      "humidity_percent",
		Help:      "Relative humidity in percent.",
	}, s.Humidity)

	return s
}

func serveAction(c *cli.Context, dev *hdc100x.Dev, logger golog.Logger) error {
	registerMetrics(prometheus.DefaultRegisterer, dev, clock.New(), logger)
	addr := c.String(flagListen)
	logger.Infow("serving metrics", "address", addr)
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, nil)
}

func round(v float64, d int) float64 {
	p := math.Pow(10, float64(d))
	return math.Round(v*p) / p
}
