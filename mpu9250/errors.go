// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mpu9250

import (
	"errors"
	"fmt"
)

// ErrTimeout is reported when a bus transfer does not complete within the
// configured bound.
var ErrTimeout = errors.New("transfer timed out")

// ErrBusy is reported when a transfer abandoned after a timeout still occupies
// the bus. It matches ErrTimeout with errors.Is.
var ErrBusy = fmt.Errorf("%w: previous transfer still running", ErrTimeout)

// BusError is returned for every failed transport operation.
type BusError struct {
	Op  string // "read", "write" or "select"
	Reg Register
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("mpu9250: %s %s: %v", e.Op, e.Reg, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// Status classifies the outcome of an operation.
type Status int

const (
	StatusOK Status = iota
	StatusTimeout
	StatusTransportError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimeout:
		return "timeout"
	default:
		return "transport error"
	}
}

// StatusOf maps an error returned by this package to a Status.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrTimeout):
		return StatusTimeout
	default:
		return StatusTransportError
	}
}

func wrapf(format string, a ...interface{}) error {
	return fmt.Errorf("mpu9250: "+format, a...)
}
