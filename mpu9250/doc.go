// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mpu9250 reads an InvenSense MPU-9250 accelerometer/gyroscope over
// either I²C or SPI.
//
// The transport is chosen once, by calling NewI2C or NewSPI, and the rest of
// the API behaves the same on both buses. Construction writes a fixed
// configuration: 5 Hz low pass filters, ±4 g accelerometer range, ±1000 °/s
// gyroscope range and auxiliary I²C bypass.
//
// # Magnetometer
//
// The AK8963 magnetometer behind the auxiliary bus is not read. Samples carry
// the constant placeholder (8, 1, 42) in their Mag field.
//
// # Error handling
//
// By default every bus failure is returned as a *BusError; use StatusOf to
// classify it. Opts.Silent selects the legacy behavior instead:
// failures are swallowed, a timed out SPI byte reads as 0xFF and readings are
// returned as if valid.
//
// A transfer that times out keeps running in the background. Until it
// returns, the next transfer waits up to one more timeout and then fails with
// ErrBusy, which StatusOf reports as StatusTimeout. An SPI frame is never
// started while such a byte is pending, so chip select framing holds.
//
// # Datasheet
//
// https://invensense.tdk.com/wp-content/uploads/2015/02/PS-MPU-9250A-01-v1.1.pdf
//
// https://invensense.tdk.com/wp-content/uploads/2015/02/RM-MPU-9250A-00-v1.6.pdf
package mpu9250
