// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package accel is a container for inertial sensor drivers.
//
// The drivers are written against periph.io/x/conn/v3 so they run on any
// host that provides an i2c.Bus or an spi.Port. See mpu9250/tinygobus for
// running them on tinygo buses.
package accel
