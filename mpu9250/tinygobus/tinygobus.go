// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tinygobus exposes tinygo buses through the periph connection
// interfaces, so periph drivers such as mpu9250 run on microcontrollers.
//
// The tinygo side is configured by the caller (pins, clock, mode); Connect and
// SetSpeed only check what they can.
//
// # Timeouts
//
// Bus calls through these adapters block until the hardware is done, and
// tinygo's scheduler is cooperative: a transfer that busy waits never yields,
// so a timer racing it can't fire. Set mpu9250.Opts.I2CTimeout and
// SPIByteTimeout to zero on tinygo. Transfers then run inline on the calling
// goroutine, without a goroutine or timer per byte.
package tinygobus

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"tinygo.org/x/drivers"
)

// I2C wraps a drivers.I2C as an i2c.Bus.
type I2C struct {
	name string
	b    drivers.I2C
}

var _ i2c.Bus = (*I2C)(nil)

// NewI2C returns b as an i2c.Bus called name.
func NewI2C(name string, b drivers.I2C) *I2C {
	return &I2C{name: name, b: b}
}

func (i *I2C) String() string {
	return i.name
}

// Tx implements i2c.Bus.
func (i *I2C) Tx(addr uint16, w, r []byte) error {
	return i.b.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus. The speed is fixed when the tinygo bus is
// configured.
func (i *I2C) SetSpeed(f physic.Frequency) error {
	return fmt.Errorf("tinygobus: can't change %s speed to %s", i.name, f)
}

// SPI wraps a drivers.SPI as an spi.Port and its spi.Conn.
type SPI struct {
	name string
	s    drivers.SPI
}

var (
	_ spi.Port = (*SPI)(nil)
	_ spi.Conn = (*SPI)(nil)
)

// NewSPI returns s as an spi.Port called name.
func NewSPI(name string, s drivers.SPI) *SPI {
	return &SPI{name: name, s: s}
}

func (s *SPI) String() string {
	return s.name
}

// Connect implements spi.Port. Only 8 bit words are supported.
func (s *SPI) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if bits != 8 {
		return nil, fmt.Errorf("tinygobus: %s supports 8 bits words, not %d", s.name, bits)
	}
	return s, nil
}

// LimitSpeed implements spi.Port.
func (s *SPI) LimitSpeed(f physic.Frequency) error {
	return nil
}

// Duplex implements conn.Conn.
func (s *SPI) Duplex() conn.Duplex {
	return conn.Full
}

// Tx implements conn.Conn. Single byte exchanges use Transfer.
func (s *SPI) Tx(w, r []byte) error {
	if len(w) == 1 && len(r) == 1 {
		b, err := s.s.Transfer(w[0])
		r[0] = b
		return err
	}
	return s.s.Tx(w, r)
}

// TxPackets implements spi.Conn. Chip select control is not available.
func (s *SPI) TxPackets(p []spi.Packet) error {
	for i := range p {
		if p[i].BitsPerWord != 0 && p[i].BitsPerWord != 8 {
			return errors.New("tinygobus: only 8 bits words are supported")
		}
		if err := s.Tx(p[i].W, p[i].R); err != nil {
			return err
		}
	}
	return nil
}

// Setter is the output side of a tinygo machine.Pin.
type Setter interface {
	Set(high bool)
}

// Pin wraps a Setter as a gpio.PinOut, typically to drive a chip select.
type Pin struct {
	name string
	num  int
	p    Setter
}

var _ gpio.PinOut = (*Pin)(nil)

// NewPin returns p as a gpio.PinOut.
func NewPin(name string, num int, p Setter) *Pin {
	return &Pin{name: name, num: num, p: p}
}

func (p *Pin) String() string {
	return p.name
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return p.num
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	return "Out"
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	p.p.Set(bool(l))
	return nil
}

// PWM implements gpio.PinOut.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("tinygobus: PWM not supported")
}
