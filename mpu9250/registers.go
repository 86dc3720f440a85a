// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mpu9250

import "fmt"

// Register is a register address in the MPU-9250 register map.
type Register byte

const (
	// Config holds the gyroscope and temperature DLPF_CFG bits.
	Config Register = 0x1A
	// GyroConfig holds GYRO_FS_SEL.
	GyroConfig Register = 0x1B
	// AccelConfig holds ACCEL_FS_SEL.
	AccelConfig Register = 0x1C
	// AccelConfig2 holds A_DLPFCFG.
	AccelConfig2 Register = 0x1D
	// IntPinCfg holds BYPASS_EN among the INT pin settings.
	IntPinCfg Register = 0x37
	// AccelXOutH is the first register of the measurement block.
	AccelXOutH Register = 0x3B
	// TempOutH is the high byte of the temperature word.
	TempOutH Register = 0x41
	// GyroXOutH is the first gyroscope register.
	GyroXOutH Register = 0x43
	// WhoAmI holds the device identity.
	WhoAmI Register = 0x75
)

var registerNames = map[Register]string{
	Config:       "CONFIG",
	GyroConfig:   "GYRO_CONFIG",
	AccelConfig:  "ACCEL_CONFIG",
	AccelConfig2: "ACCEL_CONFIG2",
	IntPinCfg:    "INT_PIN_CFG",
	AccelXOutH:   "ACCEL_XOUT_H",
	TempOutH:     "TEMP_OUT_H",
	GyroXOutH:    "GYRO_XOUT_H",
	WhoAmI:       "WHO_AM_I",
}

func (r Register) String() string {
	if n, ok := registerNames[r]; ok {
		return n
	}
	return fmt.Sprintf("0x%02X", byte(r))
}

const (
	// DefaultAddress is the I²C address with AD0 pulled low.
	DefaultAddress uint16 = 0x68
	// MagAddress is the AK8963 address once bypass is enabled.
	MagAddress uint16 = 0x0C

	// readFlag is set on the SPI address byte to request a read.
	readFlag byte = 0x80

	// dlpf5Hz selects the 5 Hz bandwidth in both CONFIG and ACCEL_CONFIG2.
	dlpf5Hz byte = 0x06
	// bypassEnable is BYPASS_EN in INT_PIN_CFG.
	bypassEnable byte = 0x02

	// measurementLen covers accel XYZ, temperature and gyro XYZ.
	measurementLen = 14
	tempOffset     = int(TempOutH - AccelXOutH)
	gyroOffset     = int(GyroXOutH - AccelXOutH)

	// fullScaleCounts is the magnitude of a full scale reading.
	fullScaleCounts = 32768.0
)

// AccelRange is an ACCEL_FS_SEL encoding.
type AccelRange byte

const (
	Accel2G  AccelRange = 0x00
	Accel4G  AccelRange = 0x08
	Accel8G  AccelRange = 0x10
	Accel16G AccelRange = 0x18
)

// G returns the full scale range in g.
func (a AccelRange) G() float64 {
	return float64(uint(2) << (a >> 3))
}

func (a AccelRange) String() string {
	return fmt.Sprintf("±%dg", int(a.G()))
}

// GyroRange is a GYRO_FS_SEL encoding.
type GyroRange byte

const (
	Gyro250DPS  GyroRange = 0x00
	Gyro500DPS  GyroRange = 0x08
	Gyro1000DPS GyroRange = 0x10
	Gyro2000DPS GyroRange = 0x18
)

// DPS returns the full scale range in degrees per second.
func (g GyroRange) DPS() float64 {
	return float64(uint(250) << (g >> 3))
}

func (g GyroRange) String() string {
	return fmt.Sprintf("±%d°/s", int(g.DPS()))
}
