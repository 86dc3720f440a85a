// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mpu9250

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"
)

// DebugF the debug function type.
type DebugF func(string, ...interface{})

// Transport moves register contents between the host and the device.
//
// ReadBytes fills buf starting at reg, WriteBytes writes data starting at reg.
// The device auto-increments the register address within one call.
type Transport interface {
	ReadBytes(reg Register, buf []byte) error
	WriteBytes(reg Register, data []byte) error
	String() string
}

// I2CTransport issues one addressed I²C transaction per call.
type I2CTransport struct {
	d     *i2c.Dev
	x     exchange
	debug DebugF
}

// NewI2CTransport returns a transport talking to address on bus. Each
// transaction is abandoned after timeout; zero waits forever.
func NewI2CTransport(bus i2c.Bus, address uint16, timeout time.Duration) *I2CTransport {
	return &I2CTransport{d: &i2c.Dev{Bus: bus, Addr: address}, x: exchange{timeout: timeout}, debug: noop}
}

// EnableDebug Sets the debugging output using the local print function.
func (t *I2CTransport) EnableDebug(f DebugF) {
	t.debug = f
}

// Addr returns the device address used on the bus.
func (t *I2CTransport) Addr() uint16 {
	return t.d.Addr
}

func (t *I2CTransport) String() string {
	return fmt.Sprintf("I2C{%s}", t.d)
}

// ReadBytes implements Transport.
func (t *I2CTransport) ReadBytes(reg Register, buf []byte) error {
	t.debug("i2c read %s len %d", reg, len(buf))
	r := make([]byte, len(buf))
	err := t.x.run(func() error {
		return t.d.Tx([]byte{byte(reg)}, r)
	})
	if err != nil {
		return &BusError{Op: "read", Reg: reg, Err: err}
	}
	copy(buf, r)
	t.debug("i2c %s content % x", reg, buf)
	return nil
}

// WriteBytes implements Transport.
func (t *I2CTransport) WriteBytes(reg Register, data []byte) error {
	t.debug("i2c write %s value % x", reg, data)
	w := append([]byte{byte(reg)}, data...)
	if err := t.x.run(func() error { return t.d.Tx(w, nil) }); err != nil {
		return &BusError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

// SPITransport frames each call with an explicit chip select and shifts the
// payload one byte at a time.
type SPITransport struct {
	c  spi.Conn
	cs gpio.PinOut
	x  exchange
	// lenient keeps clocking the frame after a failed byte.
	lenient bool
	debug   DebugF
}

// NewSPITransport returns a transport using conn for data and cs as the
// active low chip select. Each byte exchange is abandoned after byteTimeout;
// zero waits forever.
func NewSPITransport(conn spi.Conn, cs gpio.PinOut, byteTimeout time.Duration) *SPITransport {
	return &SPITransport{c: conn, cs: cs, x: exchange{timeout: byteTimeout}, debug: noop}
}

// EnableDebug Sets the debugging output using the local print function.
func (t *SPITransport) EnableDebug(f DebugF) {
	t.debug = f
}

func (t *SPITransport) String() string {
	return fmt.Sprintf("SPI{%s, CS:%s}", t.c, t.cs)
}

// ReadBytes implements Transport. Bytes that could not be exchanged read as
// 0xFF.
func (t *SPITransport) ReadBytes(reg Register, buf []byte) error {
	t.debug("spi read %s len %d", reg, len(buf))
	err := t.frame("read", reg, byte(reg)|readFlag, buf, nil)
	t.debug("spi %s content % x", reg, buf)
	return err
}

// WriteBytes implements Transport.
func (t *SPITransport) WriteBytes(reg Register, data []byte) error {
	t.debug("spi write %s value % x", reg, data)
	return t.frame("write", reg, byte(reg), nil, data)
}

// frame runs one chip select framed transaction. Only one of rx and tx is
// non-nil. The chip select is released even when the transfer failed; the
// first failure is returned.
//
// A frame is not started while an abandoned byte exchange is still running
// on the port, in lenient mode too: that byte would land inside the frame.
func (t *SPITransport) frame(op string, reg Register, addr byte, rx, tx []byte) error {
	if err := t.x.settle(); err != nil {
		t.debug("spi %s %s: %v", op, reg, err)
		for i := range rx {
			rx[i] = 0xFF
		}
		return &BusError{Op: "select", Reg: reg, Err: err}
	}

	var first error
	// fail records err and reports whether the frame must stop.
	fail := func(what string, err error) bool {
		t.debug("spi %s %s: %v", what, reg, err)
		if first == nil {
			first = &BusError{Op: what, Reg: reg, Err: err}
		}
		return !t.lenient
	}

	stop := false
	if err := t.cs.Out(gpio.Low); err != nil {
		stop = fail("select", err)
	}
	if !stop {
		if _, err := t.xfer(addr); err != nil {
			stop = fail(op, err)
		}
	}
	n := len(rx) + len(tx)
	i := 0
	for ; i < n && !stop; i++ {
		var out byte
		if tx != nil {
			out = tx[i]
		}
		in, err := t.xfer(out)
		if err != nil {
			stop = fail(op, err)
		}
		if rx != nil {
			rx[i] = in
		}
	}
	for ; i < len(rx); i++ {
		rx[i] = 0xFF
	}
	if err := t.cs.Out(gpio.High); err != nil {
		fail("select", err)
	}
	return first
}

// xfer exchanges one byte. A failed exchange returns 0xFF.
func (t *SPITransport) xfer(b byte) (byte, error) {
	in := make([]byte, 1)
	err := t.x.run(func() error {
		return t.c.Tx([]byte{b}, in)
	})
	if err != nil {
		return 0xFF, err
	}
	return in[0], nil
}

// exchange bounds blocking bus calls. A call abandoned after the timeout is
// remembered, and no other call starts on the bus until it has returned.
type exchange struct {
	timeout time.Duration
	pending <-chan error
}

// settle waits up to the timeout for an abandoned call to return. It fails
// with ErrBusy if the call is still running.
func (e *exchange) settle() error {
	if e.pending == nil {
		return nil
	}
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()
	select {
	case <-e.pending:
		e.pending = nil
		return nil
	case <-timer.C:
		return ErrBusy
	}
}

// run calls f once the bus is free and stops waiting for it after the
// timeout; zero waits forever. On timeout f is left running, so it must not
// touch buffers the caller reuses.
func (e *exchange) run(f func() error) error {
	if err := e.settle(); err != nil {
		return err
	}
	if e.timeout <= 0 {
		return f()
	}
	done := make(chan error, 1)
	go func() { done <- f() }()
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		e.pending = done
		return ErrTimeout
	}
}

func noop(string, ...interface{}) {}
