// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hdc100x

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/hdc100x-devices/common"
)

const (
	// DefaultAddress is the bus address with both ADR pins tied low.
	DefaultAddress uint16 = 0x40

	// ManufacturerID is the value of RegManufacturerID (Texas Instruments).
	ManufacturerID uint16 = 0x5449
	// DeviceID is the value of RegDeviceID for the HDC1000 and HDC1008.
	DeviceID uint16 = 0x1000
)

// Register addresses.
const (
	// Writing this pointer triggers a conversion. In sequential mode the
	// result streams temperature then humidity.
	RegTemperature byte = 0x00
	RegHumidity    byte = 0x01
	RegConfig      byte = 0x02
	// Factory programmed serial number, in three words.
	RegSerial1        byte = 0xfb
	RegSerial2        byte = 0xfc
	RegSerial3        byte = 0xfd
	RegManufacturerID byte = 0xfe
	RegDeviceID       byte = 0xff
)

// Config is the value of the configuration register.
type Config uint16

const (
	ConfigReset  Config = 1 << 15
	ConfigHeater Config = 1 << 13
	// ConfigModeSequential makes a single trigger acquire temperature and
	// humidity, read back as four bytes.
	ConfigModeSequential Config = 1 << 12
	// ConfigBatteryLow is read-only. It is set when the supply is below 2.8V.
	ConfigBatteryLow Config = 1 << 11
	ConfigTempRes14  Config = 0
	ConfigTempRes11  Config = 1 << 10
	ConfigHumidRes14 Config = 0
	ConfigHumidRes11 Config = 1 << 8
	ConfigHumidRes8  Config = 1 << 9
)

// String lists the set flags and the selected resolutions.
func (c Config) String() string {
	var flags []string
	if c&ConfigReset != 0 {
		flags = append(flags, "Reset")
	}
	if c&ConfigHeater != 0 {
		flags = append(flags, "Heater")
	}
	if c&ConfigModeSequential != 0 {
		flags = append(flags, "Sequential")
	}
	if c&ConfigBatteryLow != 0 {
		flags = append(flags, "BatteryLow")
	}
	if c&ConfigTempRes11 != 0 {
		flags = append(flags, "TempRes11")
	} else {
		flags = append(flags, "TempRes14")
	}
	switch {
	case c&ConfigHumidRes8 != 0:
		flags = append(flags, "HumidRes8")
	case c&ConfigHumidRes11 != 0:
		flags = append(flags, "HumidRes11")
	default:
		flags = append(flags, "HumidRes14")
	}
	return strings.Join(flags, " | ")
}

const (
	// The chip ignores the bus until a configuration write has settled.
	settleDelay = 15 * time.Millisecond
	// Time for a 14 bit temperature + humidity conversion.
	conversionDelay = 10 * time.Millisecond
	retryDelay      = 10 * time.Millisecond
	measureAttempts = 2
	sampleSize      = 4

	dryCycles     = 1000
	dryCycleDelay = time.Millisecond

	// A measurement cannot complete faster than this.
	minSenseInterval = conversionDelay + measureAttempts*retryDelay

	// Magic numbers for count to value conversions, from the datasheet.
	temperatureOffset float64 = -40.0
	temperatureScalar float64 = 165.0
	humidityScalar    float64 = 100.0
	scaleDivisor      float64 = 65536.0
	// Counts per full scale at 14 bit resolution.
	resolutionDivisor float64 = 16384.0

	normalConfig = ConfigReset | ConfigModeSequential | ConfigTempRes14 | ConfigHumidRes14
	dryingConfig = normalConfig | ConfigHeater
)

// Opts holds the configuration options for the device.
type Opts struct {
	// Clock is used for every delay the device requires. Defaults to the
	// wall clock.
	Clock clock.Clock
	// Logger receives debug output. Defaults to a no-op logger.
	Logger golog.Logger
	// NotReady reports whether a failed single byte read means the device
	// NAKed because the conversion is still running. Only those failures are
	// retried; any other read error is returned as is. When nil, every read
	// failure is treated as not ready, since the Linux i2c-dev driver reports
	// a NAK as a plain I/O error.
	NotReady func(error) bool
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{}

// Dev represents a HDC1000/HDC1008 sensor.
type Dev struct {
	t    Transport
	opts Opts
	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewI2C returns a sensor at addr on bus b. The device is reset and its
// identity verified. The Opts can be nil.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	return New(NewI2CTransport(b, addr), opts)
}

// New returns a sensor using the supplied Transport. The device is reset,
// then its manufacturer and device IDs are checked. An *IdentityMismatchError
// is returned if either does not match. The Opts can be nil.
func New(t Transport, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{t: t, opts: *opts}
	if d.opts.Clock == nil {
		d.opts.Clock = clock.New()
	}
	if d.opts.Logger == nil {
		d.opts.Logger = zap.NewNop().Sugar()
	}
	if err := d.Reset(); err != nil {
		return nil, err
	}
	// Nothing else is read once the manufacturer doesn't match.
	if err := d.checkID(RegManufacturerID, ManufacturerID); err != nil {
		return nil, err
	}
	if err := d.checkID(RegDeviceID, DeviceID); err != nil {
		return nil, err
	}
	d.opts.Logger.Debugw("hdc100x: device ready", "bus", t.String())
	return d, nil
}

func (d *Dev) checkID(reg byte, expected uint16) error {
	id, err := d.t.ReadUint16BE(reg)
	if err != nil {
		return fmt.Errorf("hdc100x: reading register 0x%02x: %w", reg, err)
	}
	if id != expected {
		return &IdentityMismatchError{Addr: d.t.Addr(), Register: reg, Expected: expected, Actual: id}
	}
	return nil
}

// Reset performs a soft-reset of the device and selects sequential mode with
// 14 bit temperature and humidity resolution. The heater is turned off.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.Logger.Debugw("hdc100x: reset", "config", normalConfig)
	err := d.writeConfig(normalConfig)
	d.opts.Clock.Sleep(settleDelay)
	if err != nil {
		return fmt.Errorf("hdc100x: reset: %w", err)
	}
	return nil
}

// writeConfig writes c to the configuration register, most significant byte
// first on the wire.
func (d *Dev) writeConfig(c Config) error {
	v := uint16(c)
	if d.t.ByteOrder() != binary.BigEndian {
		v = common.ReverseByteOrder16(v)
	}
	return d.t.WriteUint16(RegConfig, v)
}

// ReadConfig returns the current value of the configuration register.
func (d *Dev) ReadConfig() (Config, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.t.ReadUint16BE(RegConfig)
	if err != nil {
		return 0, fmt.Errorf("hdc100x: reading configuration: %w", err)
	}
	return Config(v), nil
}

// BatteryLow reports whether the supply voltage is below 2.8V.
func (d *Dev) BatteryLow() (bool, error) {
	c, err := d.ReadConfig()
	if err != nil {
		return false, err
	}
	return c&ConfigBatteryLow != 0, nil
}

// SerialNumber returns the factory programmed serial number.
func (d *Dev) SerialNumber() (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result uint64
	for _, reg := range []byte{RegSerial1, RegSerial2, RegSerial3} {
		v, err := d.t.ReadUint16BE(reg)
		if err != nil {
			return 0, fmt.Errorf("hdc100x: reading serial number: %w", err)
		}
		result = result<<16 | uint64(v)
	}
	return result, nil
}

// Data triggers a conversion and returns the temperature in degrees Celsius
// and the relative humidity in percent. Values are not clamped.
//
// If the device does not produce a result in time, a *ReadTimeoutError is
// returned.
func (d *Dev) Data() (temperature, humidity float64, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, err := d.measure(RegTemperature)
	if err != nil {
		return 0, 0, err
	}
	return countToCelsius(s[0], s[1]), countToHumidity(s[2], s[3]), nil
}

// Convert the raw count to a temperature in degrees Celsius.
func countToCelsius(hi, lo byte) float64 {
	// The explicit conversion keeps the multiply and add from being fused.
	return float64(float64(common.Uint16BE(hi, lo))/scaleDivisor*temperatureScalar) + temperatureOffset
}

// convert the raw count to a relative humidity in percent.
func countToHumidity(hi, lo byte) float64 {
	return (float64(common.Uint16BE(hi, lo)) / scaleDivisor) * humidityScalar
}

// measure selects reg, which triggers a conversion, waits for it and reads
// the four byte result. A read the device NAKs is restarted from the first
// byte; a partial sample is never returned.
func (d *Dev) measure(reg byte) ([sampleSize]byte, error) {
	var sample [sampleSize]byte
	if err := d.t.WriteRaw(reg); err != nil {
		return sample, err
	}
	d.opts.Clock.Sleep(conversionDelay)

	var cause error
	for attempt := 1; attempt <= measureAttempts; attempt++ {
		if attempt > 1 {
			d.opts.Clock.Sleep(retryDelay)
		}
		if cause = d.readSample(&sample); cause == nil {
			return sample, nil
		}
		if !d.notReady(cause) {
			return [sampleSize]byte{}, cause
		}
		d.opts.Logger.Debugw("hdc100x: device not ready", "register", reg, "attempt", attempt, "error", cause)
	}
	return [sampleSize]byte{}, &ReadTimeoutError{
		Addr:     d.t.Addr(),
		Register: reg,
		Attempts: measureAttempts,
		Err:      cause,
	}
}

// readSample reads one full sample, stopping at the first failed byte.
func (d *Dev) readSample(sample *[sampleSize]byte) error {
	for i := range sample {
		b, err := d.t.ReadRaw()
		if err != nil {
			return err
		}
		sample[i] = b
	}
	return nil
}

func (d *Dev) notReady(err error) bool {
	if d.opts.NotReady == nil {
		return true
	}
	return d.opts.NotReady(err)
}

// DrySensor runs the heater through 1000 conversions to drive off
// condensation, then restores the configuration that was active before.
// It blocks for several seconds.
//
// If a conversion cannot be read the drying stops and the *ReadTimeoutError
// is returned. The previous configuration is restored in every case once
// the heater was switched on; a failure to restore is returned as well.
func (d *Dev) DrySensor() (err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.t.ReadUint16BE(RegConfig)
	if err != nil {
		return fmt.Errorf("hdc100x: reading configuration: %w", err)
	}
	orig := Config(v)
	d.opts.Logger.Debugw("hdc100x: drying sensor", "config", orig, "cycles", dryCycles)

	defer func() {
		rerr := d.writeConfig(orig)
		d.opts.Clock.Sleep(settleDelay)
		if rerr != nil {
			rerr = fmt.Errorf("hdc100x: restoring configuration: %w", rerr)
		}
		d.opts.Logger.Debugw("hdc100x: configuration restored", "config", orig, "error", rerr)
		err = multierr.Append(err, rerr)
	}()

	if err = d.writeConfig(dryingConfig); err != nil {
		return fmt.Errorf("hdc100x: enabling heater: %w", err)
	}
	d.opts.Clock.Sleep(settleDelay)

	// The data is discarded, the conversions are what heats the die.
	for i := range dryCycles {
		if i%100 == 0 {
			d.opts.Logger.Debugw("hdc100x: drying", "cycle", i)
		}
		if _, err = d.measure(RegTemperature); err != nil {
			return fmt.Errorf("hdc100x: drying cycle %d: %w", i, err)
		}
		d.opts.Clock.Sleep(dryCycleDelay)
	}
	return nil
}

// Sense reads temperature and humidity from the device and writes the value to
// the specified env variable. Implements physic.SenseEnv.
func (d *Dev) Sense(e *physic.Env) error {
	e.Temperature = 0
	e.Pressure = 0
	e.Humidity = 0
	t, h, err := d.Data()
	if err != nil {
		return err
	}
	e.Temperature = physic.ZeroCelsius + physic.Temperature(t*float64(physic.Celsius))
	e.Humidity = physic.RelativeHumidity(h * float64(physic.PercentRH))
	return nil
}

// SenseContinuous continuously reads from the device and writes the value to
// the returned channel. Implements physic.SenseEnv. To terminate the
// continuous read, call Halt().
//
// Readings that fail are skipped.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("hdc100x: SenseContinuous already running")
	}
	if interval < minSenseInterval {
		return nil, fmt.Errorf("hdc100x: sample interval is < %s", minSenseInterval)
	}
	d.stop = make(chan struct{})
	ch := make(chan physic.Env, 16)
	d.wg.Add(1)
	go d.senseLoop(interval, d.stop, ch)
	return ch, nil
}

func (d *Dev) senseLoop(interval time.Duration, stop <-chan struct{}, ch chan<- physic.Env) {
	defer d.wg.Done()
	defer close(ch)
	ticker := d.opts.Clock.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e := physic.Env{}
			if err := d.Sense(&e); err != nil {
				d.opts.Logger.Debugw("hdc100x: continuous reading failed", "error", err)
				continue
			}
			select {
			case ch <- e:
			case <-stop:
				return
			}
		}
	}
}

// Halt stops a running SenseContinuous. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	return nil
}

// Precision returns the sensor's precision at 14 bit resolution. Implements
// physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Temperature(math.Round(temperatureScalar / resolutionDivisor * float64(physic.Celsius)))
	e.Humidity = physic.RelativeHumidity(math.Round(humidityScalar / resolutionDivisor * float64(physic.PercentRH)))
	e.Pressure = 0
}

func (d *Dev) String() string {
	return fmt.Sprintf("hdc100x: %s", d.t)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
