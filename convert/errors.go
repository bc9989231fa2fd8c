// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package convert

import "errors"

// ErrInvalidEncoding is wrapped by a [ReadError] when a shader is not valid
// UTF-8.
var ErrInvalidEncoding = errors.New("shader is not valid UTF-8")

// InputError is returned when the input directory can't be listed.
type InputError struct {
	Dir string
	Err error
}

func (e *InputError) Error() string { return "reading input folder " + e.Dir + ": " + e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// ReadError is returned when a shader source can't be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return "reading shader " + e.Path + ": " + e.Err.Error() }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is returned when a generated header can't be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return "writing header " + e.Path + ": " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }
