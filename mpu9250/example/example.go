// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package example reads an MPU-9250 over SPI or I²C with register tracing
// sent to a colored logrus logger.
package example

import (
	"fmt"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/ovbabin/accel/mpu9250"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// CSPin is the chip select used by ExampleSPI.
var CSPin = "GPIO8"

func setup(verbose bool) mpu9250.Opts {
	logrus.SetOutput(colorable.NewColorableStdout())
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	opts := mpu9250.DefaultOpts
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		opts.Debug = logrus.Debugf
	}
	if _, err := host.Init(); err != nil {
		logrus.Fatal(err)
	}
	return opts
}

// ExampleSPI reads the sensor every 100ms for 3 seconds on the first SPI
// port, framed by CSPin.
func ExampleSPI() {
	opts := setup(true)

	p, err := spireg.Open("")
	if err != nil {
		logrus.Fatal(err)
	}
	defer p.Close()

	cs := gpioreg.ByName(CSPin)
	if cs == nil {
		logrus.Fatalf("no pin %s", CSPin)
	}

	d, err := mpu9250.NewSPI(p, cs, &opts)
	if err != nil {
		logrus.Fatal(err)
	}
	run(d)
}

// ExampleI2C reads the sensor every 100ms for 3 seconds on the first I²C bus.
func ExampleI2C() {
	opts := setup(false)

	b, err := i2creg.Open("")
	if err != nil {
		logrus.Fatal(err)
	}
	defer b.Close()

	d, err := mpu9250.NewI2C(b, mpu9250.DefaultAddress, &opts)
	if err != nil {
		logrus.Fatal(err)
	}
	run(d)
}

func run(d *mpu9250.Dev) {
	fmt.Println(d)
	id, err := d.ReadID()
	if err != nil {
		logrus.Fatal(err)
	}
	logrus.Infof("WHO_AM_I %#02x", id)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	stop := time.After(3 * time.Second)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s, err := d.ReadPhysical()
			if err != nil {
				logrus.WithField("status", mpu9250.StatusOf(err)).Error(err)
				continue
			}
			fmt.Printf("%s %s\n", s, mpu9250.Temperature(s.Temp))
		}
	}
}
