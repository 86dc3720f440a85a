// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mpu9250

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Opts holds the bus level options of a Dev.
type Opts struct {
	// SPIFrequency is the clock requested from the SPI port.
	SPIFrequency physic.Frequency
	// I2CTimeout bounds one I²C transaction. Zero waits forever.
	I2CTimeout time.Duration
	// SPIByteTimeout bounds each single byte SPI exchange. Zero waits forever.
	SPIByteTimeout time.Duration
	// Silent swallows every bus failure: operations return whatever data was
	// shifted in, with 0xFF for timed out SPI bytes, and a nil error.
	Silent bool
	// Debug receives a trace of register traffic and swallowed failures.
	Debug DebugF
}

// DefaultOpts clocks SPI at 1 MHz. Transfers time out after 65535 ms on I²C
// and after 4096 ms per SPI byte.
var DefaultOpts = Opts{
	SPIFrequency:   physic.MegaHertz,
	I2CTimeout:     0xFFFF * time.Millisecond,
	SPIByteTimeout: 0x1000 * time.Millisecond,
}

const (
	accelRange = Accel4G
	gyroRange  = Gyro1000DPS
)

// Dev is an MPU-9250 bound to one transport.
//
// Dev is not safe for concurrent use.
type Dev struct {
	t     Transport
	opts  Opts
	debug DebugF

	accelFS float64
	gyroFS  float64
}

// NewI2C returns a Dev on bus at addr, usually DefaultAddress, and
// configures it.
func NewI2C(bus i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if bus == nil {
		return nil, wrapf("nil I²C bus")
	}
	o := options(opts)
	return New(NewI2CTransport(bus, addr, o.I2CTimeout), &o)
}

// NewSPI connects to p in mode 0 and returns a configured Dev framed by the
// active low chip select cs.
func NewSPI(p spi.Port, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	if p == nil {
		return nil, wrapf("nil SPI port")
	}
	if cs == nil {
		return nil, wrapf("SPI needs a chip select pin")
	}
	o := options(opts)
	c, err := p.Connect(o.SPIFrequency, spi.Mode0, 8)
	if err != nil {
		return nil, wrapf("can't initialize SPI %v", err)
	}
	return New(NewSPITransport(c, cs, o.SPIByteTimeout), &o)
}

// New returns a Dev using t for every register access and configures it.
// The transport can't be changed afterward.
func New(t Transport, opts *Opts) (*Dev, error) {
	if t == nil {
		return nil, wrapf("nil transport")
	}
	o := options(opts)
	d := &Dev{t: t, opts: o, debug: noop}
	if st, ok := t.(*SPITransport); ok {
		st.lenient = o.Silent
	}
	if o.Debug != nil {
		d.EnableDebug(o.Debug)
	}
	if err := d.configure(); err != nil {
		return nil, err
	}
	return d, nil
}

func options(opts *Opts) Opts {
	if opts == nil {
		return DefaultOpts
	}
	return *opts
}

// EnableDebug Sets the debugging output using the local print function.
func (d *Dev) EnableDebug(f DebugF) {
	d.debug = f
	if dt, ok := d.t.(interface{ EnableDebug(DebugF) }); ok {
		dt.EnableDebug(f)
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("MPU9250{%s}", d.t)
}

// Halt implements conn.Resource. The device has no background activity.
func (d *Dev) Halt() error {
	return nil
}

// Transport returns the transport chosen at construction.
func (d *Dev) Transport() Transport {
	return d.t
}

// AccelRange returns the accelerometer full scale range in g.
func (d *Dev) AccelRange() float64 {
	return d.accelFS
}

// GyroRange returns the gyroscope full scale range in °/s.
func (d *Dev) GyroRange() float64 {
	return d.gyroFS
}

// configure writes the fixed setup. The same sequence runs on both buses.
func (d *Dev) configure() error {
	if err := d.writeReg(AccelConfig2, dlpf5Hz); err != nil {
		return err
	}
	if err := d.writeReg(Config, dlpf5Hz); err != nil {
		return err
	}
	if err := d.writeReg(AccelConfig, byte(accelRange)); err != nil {
		return err
	}
	d.accelFS = accelRange.G()
	if err := d.writeReg(GyroConfig, byte(gyroRange)); err != nil {
		return err
	}
	d.gyroFS = gyroRange.DPS()
	return d.writeReg(IntPinCfg, bypassEnable)
}

// ReadID returns the WHO_AM_I register. The value is not checked; an
// MPU-9250 answers 0x71.
func (d *Dev) ReadID() (byte, error) {
	return d.readReg(WhoAmI)
}

// Read returns the raw measurement block. On error the sample still decodes
// whatever was shifted in, with 0xFF for SPI bytes that were lost.
func (d *Dev) Read() (RawSample, error) {
	var b [measurementLen]byte
	err := d.readBlock(b[:])
	return decodeRaw(b[:]), err
}

// ReadPhysical returns the measurement block with acceleration and angular
// rate scaled by the configured ranges. Errors are handled as in Read.
func (d *Dev) ReadPhysical() (PhysicalSample, error) {
	var b [measurementLen]byte
	err := d.readBlock(b[:])
	return decodePhysical(b[:], d.accelFS, d.gyroFS), err
}

func (d *Dev) readBlock(b []byte) error {
	return d.check(d.t.ReadBytes(AccelXOutH, b))
}

func (d *Dev) readReg(reg Register) (byte, error) {
	var b [1]byte
	err := d.check(d.t.ReadBytes(reg, b[:]))
	return b[0], err
}

func (d *Dev) writeReg(reg Register, v byte) error {
	return d.check(d.t.WriteBytes(reg, []byte{v}))
}

// check drops err in silent mode.
func (d *Dev) check(err error) error {
	if err != nil && d.opts.Silent {
		d.debug("ignored: %v", err)
		return nil
	}
	return err
}
