// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tinygobus_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ovbabin/accel/mpu9250"
	"github.com/ovbabin/accel/mpu9250/tinygobus"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"tinygo.org/x/drivers"
)

var (
	_ drivers.I2C      = (*regFile)(nil)
	_ tinygobus.Setter = (*regFile)(nil)
	_ drivers.SPI      = spiSide{}
)

// regFile answers register reads and writes like an MPU-9250 over I²C and,
// through spiSide, over SPI. SPI frames are delimited by its chip select.
type regFile struct {
	regs      [128]byte
	addr      int
	selected  bool
	transfers int
	txs       int
}

func newRegFile() *regFile {
	f := &regFile{addr: -1}
	f.regs[mpu9250.WhoAmI] = 0x71
	copy(f.regs[mpu9250.AccelXOutH:], []byte{
		0x40, 0x00, 0xC0, 0x00, 0x00, 0x00,
		0x0D, 0x0B,
		0x00, 0x00, 0x20, 0x00, 0xE0, 0x00,
	})
	return f
}

func (f *regFile) Tx(addr uint16, w, r []byte) error {
	if addr != mpu9250.DefaultAddress {
		return errors.New("nack")
	}
	if len(w) == 0 {
		return errors.New("no register")
	}
	reg := int(w[0])
	copy(f.regs[reg:], w[1:])
	copy(r, f.regs[reg:])
	return nil
}

// Set is the chip select.
func (f *regFile) Set(high bool) {
	f.selected = !high
	f.addr = -1
}

// spiSide is the SPI face of a regFile.
type spiSide struct {
	*regFile
}

func (s spiSide) Tx(w, r []byte) error {
	s.txs++
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	for i := 0; i < n; i++ {
		var out byte
		if i < len(w) {
			out = w[i]
		}
		in, err := s.exchange(out)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = in
		}
	}
	return nil
}

func (s spiSide) Transfer(b byte) (byte, error) {
	return s.exchange(b)
}

func (f *regFile) exchange(b byte) (byte, error) {
	f.transfers++
	if !f.selected {
		return 0, errors.New("not selected")
	}
	if f.addr < 0 {
		f.addr = int(b)
		return 0, nil
	}
	reg, read := f.addr&0x7F, f.addr&0x80 != 0
	f.addr++
	if read {
		return f.regs[reg], nil
	}
	f.regs[reg] = b
	return 0, nil
}

func TestI2C(t *testing.T) {
	f := newRegFile()
	bus := tinygobus.NewI2C("I2C0", f)
	if bus.String() != "I2C0" {
		t.Errorf("String() = %q", bus.String())
	}
	if err := bus.SetSpeed(400 * physic.KiloHertz); err == nil {
		t.Error("SetSpeed() should fail")
	}
	dev, err := mpu9250.NewI2C(bus, mpu9250.DefaultAddress, nil)
	if err != nil {
		t.Fatal(err)
	}
	checkDevice(t, dev, f)
}

func TestSPI(t *testing.T) {
	f := newRegFile()
	port := tinygobus.NewSPI("SPI0", spiSide{f})
	cs := tinygobus.NewPin("GP17", 17, f)
	dev, err := mpu9250.NewSPI(port, cs, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Five frames of address plus one value.
	if f.transfers != 10 {
		t.Errorf("configuration used %d transfers", f.transfers)
	}
	checkDevice(t, dev, f)
	if f.selected {
		t.Error("chip select left asserted")
	}
	if f.txs != 0 {
		t.Errorf("driver used %d multi byte transfers", f.txs)
	}
}

func checkDevice(t *testing.T, dev *mpu9250.Dev, f *regFile) {
	t.Helper()
	want := map[mpu9250.Register]byte{
		mpu9250.AccelConfig2: 0x06,
		mpu9250.Config:       0x06,
		mpu9250.AccelConfig:  0x08,
		mpu9250.GyroConfig:   0x10,
		mpu9250.IntPinCfg:    0x02,
	}
	for reg, v := range want {
		if f.regs[reg] != v {
			t.Errorf("%s = %#x, want %#x", reg, f.regs[reg], v)
		}
	}
	id, err := dev.ReadID()
	if err != nil || id != 0x71 {
		t.Errorf("ReadID() = %#x, %v", id, err)
	}
	got, err := dev.ReadPhysical()
	if err != nil {
		t.Fatal(err)
	}
	wantSample := mpu9250.PhysicalSample{
		Accel: mpu9250.Vector{X: -2, Y: 2, Z: 0},
		Gyro:  mpu9250.Vector{X: 0, Y: -250, Z: 250},
		Mag:   mpu9250.Axes{X: 8, Y: 1, Z: 42},
		Temp:  0x0D0B,
	}
	if diff := cmp.Diff(wantSample, got); diff != "" {
		t.Errorf("ReadPhysical() mismatch (-want +got):\n%s", diff)
	}
}

func TestSPIMultiByte(t *testing.T) {
	f := newRegFile()
	port := tinygobus.NewSPI("SPI0", spiSide{f})
	cs := tinygobus.NewPin("GP17", 17, f)
	c, err := port.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		t.Fatal(err)
	}

	r := make([]byte, 3)
	if err := cs.Out(false); err != nil {
		t.Fatal(err)
	}
	err = c.Tx([]byte{byte(mpu9250.WhoAmI) | 0x80, 0, 0}, r)
	cs.Out(true)
	if err != nil {
		t.Fatal(err)
	}
	if r[1] != 0x71 {
		t.Errorf("Tx() read % x", r)
	}

	if err := cs.Out(false); err != nil {
		t.Fatal(err)
	}
	err = c.TxPackets([]spi.Packet{
		{W: []byte{byte(mpu9250.IntPinCfg)}},
		{W: []byte{0x02, 0x01}, BitsPerWord: 8},
	})
	cs.Out(true)
	if err != nil {
		t.Fatal(err)
	}
	if f.regs[mpu9250.IntPinCfg] != 0x02 || f.regs[mpu9250.IntPinCfg+1] != 0x01 {
		t.Errorf("regs = % x", f.regs[mpu9250.IntPinCfg:mpu9250.IntPinCfg+2])
	}
	if f.txs != 3 {
		t.Errorf("%d multi byte transfers, want 3", f.txs)
	}
}

func TestSPIConnect(t *testing.T) {
	port := tinygobus.NewSPI("SPI0", spiSide{newRegFile()})
	if _, err := port.Connect(physic.MegaHertz, spi.Mode0, 16); err == nil {
		t.Error("16 bits words should be rejected")
	}
	c, err := port.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.TxPackets([]spi.Packet{{W: []byte{0x01}, R: make([]byte, 1), BitsPerWord: 16}}); err == nil {
		t.Error("16 bits packets should be rejected")
	}
}

func TestPin(t *testing.T) {
	f := newRegFile()
	p := tinygobus.NewPin("GP17", 17, f)
	if p.Name() != "GP17" || p.Number() != 17 || p.String() != "GP17" {
		t.Errorf("pin = %s %d", p.Name(), p.Number())
	}
	if err := p.Out(false); err != nil {
		t.Fatal(err)
	}
	if !f.selected {
		t.Error("Out(Low) did not select")
	}
	if err := p.Out(true); err != nil {
		t.Fatal(err)
	}
	if f.selected {
		t.Error("Out(High) did not release")
	}
	if err := p.PWM(0, physic.KiloHertz); err == nil {
		t.Error("PWM() should fail")
	}
}
