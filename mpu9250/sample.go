// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mpu9250

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Axes is a raw three axis reading.
type Axes struct {
	X int16
	Y int16
	Z int16
}

func (a Axes) String() string {
	return fmt.Sprintf("X:%d Y:%d Z:%d", a.X, a.Y, a.Z)
}

// Vector is a three axis reading in physical units.
type Vector struct {
	X float64
	Y float64
	Z float64
}

func (v Vector) String() string {
	return fmt.Sprintf("X:%.4f Y:%.4f Z:%.4f", v.X, v.Y, v.Z)
}

// RawSample is one measurement block as read from the device.
type RawSample struct {
	Accel Axes
	Gyro  Axes
	// Mag is always the placeholder (8, 1, 42).
	Mag  Axes
	Temp int16
}

func (s RawSample) String() string {
	return fmt.Sprintf("Accel{%s} Gyro{%s} Mag{%s} Temp:%d", s.Accel, s.Gyro, s.Mag, s.Temp)
}

// PhysicalSample holds acceleration in g and angular rate in °/s. Note that
// both are sign inverted relative to the device axes.
type PhysicalSample struct {
	Accel Vector
	Gyro  Vector
	// Mag is always the placeholder (8, 1, 42).
	Mag Axes
	// Temp is the raw temperature word; see Temperature.
	Temp int16
}

func (s PhysicalSample) String() string {
	return fmt.Sprintf("Accel{%s}g Gyro{%s}°/s Mag{%s} Temp:%d", s.Accel, s.Gyro, s.Mag, s.Temp)
}

// magPlaceholder stands in for the magnetometer, which is never read.
var magPlaceholder = Axes{X: 8, Y: 1, Z: 42}

// word decodes the big endian two's complement value at b[off:].
func word(b []byte, off int) int16 {
	return int16(binary.BigEndian.Uint16(b[off:]))
}

func axesAt(b []byte, off int) Axes {
	return Axes{X: word(b, off), Y: word(b, off+2), Z: word(b, off+4)}
}

func decodeRaw(b []byte) RawSample {
	return RawSample{
		Accel: axesAt(b, 0),
		Gyro:  axesAt(b, gyroOffset),
		Mag:   magPlaceholder,
		Temp:  word(b, tempOffset),
	}
}

// scale converts a raw reading to physical units for a full scale range of
// fs. The result is negated.
func scale(raw int16, fs float64) float64 {
	return -float64(raw) * fs / fullScaleCounts
}

func scaleAxes(a Axes, fs float64) Vector {
	return Vector{X: scale(a.X, fs), Y: scale(a.Y, fs), Z: scale(a.Z, fs)}
}

func decodePhysical(b []byte, accelFS, gyroFS float64) PhysicalSample {
	r := decodeRaw(b)
	return PhysicalSample{
		Accel: scaleAxes(r.Accel, accelFS),
		Gyro:  scaleAxes(r.Gyro, gyroFS),
		Mag:   r.Mag,
		Temp:  r.Temp,
	}
}

const (
	tempSensitivity = 333.87 // LSB/°C
	tempRoom        = 21     // °C at a raw reading of 0
)

// Temperature converts a raw TEMP_OUT word to a temperature. Samples keep the
// raw word; call this when a calibrated value is wanted.
func Temperature(raw int16) physic.Temperature {
	c := float64(raw)/tempSensitivity + tempRoom
	return physic.ZeroCelsius + physic.Temperature(c*float64(physic.Kelvin))
}
